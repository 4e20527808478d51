package handlers

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	maxExportRows     = 10000
	defaultStatsRange = 30 * 24 * time.Hour
)

var auditCSVHeader = []string{
	"Event Time",
	"Event Type",
	"Severity",
	"Actor Username",
	"Actor IP",
	"Resource Type",
	"Resource Name",
	"Action",
	"Success",
	"Error Message",
}

// AuditHandler serves the admin audit log API.
type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// bindAuditQuery reads filters from the query string, answering 400 itself
// when a value does not parse.
func bindAuditQuery(c *gin.Context) (store.AuditQuery, bool) {
	var query store.AuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audit filter: " + err.Error()})
		return query, false
	}
	return query, true
}

// ListAuditLogs returns a page of audit logs as JSON.
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	query, ok := bindAuditQuery(c)
	if !ok {
		return
	}
	var page store.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page: " + err.Error()})
		return
	}

	logs, info, err := h.auditService.GetAuditLogs(c.Request.Context(), query, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "pagination": info})
}

// GetAuditLogStats summarizes the requested range, or the last 30 days.
func (h *AuditHandler) GetAuditLogStats(c *gin.Context) {
	query, ok := bindAuditQuery(c)
	if !ok {
		return
	}
	until := query.Until
	if until.IsZero() {
		until = time.Now()
	}
	since := query.Since
	if since.IsZero() {
		since = until.Add(-defaultStatsRange)
	}

	stats, err := h.auditService.GetAuditLogStats(c.Request.Context(), since, until)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"start_time": since,
		"end_time":   until,
	})
}

// ExportAuditLogs writes matching audit logs as CSV, newest first, up to
// maxExportRows rows.
func (h *AuditHandler) ExportAuditLogs(c *gin.Context) {
	query, ok := bindAuditQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// Fetch the first page before committing to a CSV response.
	page := store.Page{Number: 1, Size: 100}
	logs, info, err := h.auditService.GetAuditLogs(ctx, query, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition",
		"attachment; filename=audit_logs_"+time.Now().Format(time.DateOnly)+".csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()
	if err := writer.Write(auditCSVHeader); err != nil {
		return
	}

	written := 0
	for {
		for i := range logs {
			if written == maxExportRows {
				return
			}
			if err := writer.Write(auditCSVRow(&logs[i])); err != nil {
				return
			}
			written++
		}
		if !info.HasNext() {
			return
		}
		page.Number++
		if logs, info, err = h.auditService.GetAuditLogs(ctx, query, page); err != nil {
			return
		}
	}
}

func auditCSVRow(log *models.AuditLog) []string {
	success := "No"
	if log.Success {
		success = "Yes"
	}
	return []string{
		log.EventTime.Format(time.RFC3339),
		string(log.EventType),
		string(log.Severity),
		log.ActorUsername,
		log.ActorIP,
		string(log.ResourceType),
		log.ResourceName,
		log.Action,
		success,
		log.ErrorMessage,
	}
}
