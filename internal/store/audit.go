package store

import (
	"context"
	"time"

	"github.com/go-authgate/oauth1gate/internal/models"

	"gorm.io/gorm"
)

// Audit log operations

// CreateAuditLogBatch inserts audit entries in batches of 100.
func (s *Store) CreateAuditLogBatch(ctx context.Context, logs []*models.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// AuditQuery narrows an audit listing. Zero fields match everything.
type AuditQuery struct {
	EventType    models.EventType     `form:"event_type"`
	Severity     models.EventSeverity `form:"severity"`
	ResourceType models.ResourceType  `form:"resource_type"`
	ResourceID   string               `form:"resource_id"`
	ActorUserID  string               `form:"actor_user_id"`
	ActorIP      string               `form:"actor_ip"`
	Success      *bool                `form:"success"`
	Since        time.Time            `form:"start_time"`
	Until        time.Time            `form:"end_time"`
	// Search matches action, resource name or actor username.
	Search string `form:"search"`
}

func (q AuditQuery) scope(db *gorm.DB) *gorm.DB {
	equals := []struct {
		column string
		value  string
	}{
		{"event_type", string(q.EventType)},
		{"severity", string(q.Severity)},
		{"resource_type", string(q.ResourceType)},
		{"resource_id", q.ResourceID},
		{"actor_user_id", q.ActorUserID},
		{"actor_ip", q.ActorIP},
	}
	for _, eq := range equals {
		if eq.value != "" {
			db = db.Where(eq.column+" = ?", eq.value)
		}
	}
	if q.Success != nil {
		db = db.Where("success = ?", *q.Success)
	}
	if !q.Since.IsZero() {
		db = db.Where("event_time >= ?", q.Since)
	}
	if !q.Until.IsZero() {
		db = db.Where("event_time <= ?", q.Until)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("action LIKE ? OR resource_name LIKE ? OR actor_username LIKE ?", like, like, like)
	}
	return db
}

// AuditStats counts audit events in a time range.
type AuditStats struct {
	TotalEvents      int64                          `json:"total_events"`
	SuccessCount     int64                          `json:"success_count"`
	FailureCount     int64                          `json:"failure_count"`
	EventsByType     map[models.EventType]int64     `json:"events_by_type"`
	EventsBySeverity map[models.EventSeverity]int64 `json:"events_by_severity"`
}

// ListAuditLogs returns one page of matching audit logs, newest first.
func (s *Store) ListAuditLogs(
	ctx context.Context,
	query AuditQuery,
	page Page,
) ([]models.AuditLog, PageInfo, error) {
	matching := s.db.WithContext(ctx).Model(&models.AuditLog{}).Scopes(query.scope)

	var total int64
	if err := matching.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}

	var logs []models.AuditLog
	err := matching.Session(&gorm.Session{}).
		Scopes(page.scope).
		Order("event_time DESC").
		Find(&logs).Error
	if err != nil {
		return nil, PageInfo{}, err
	}
	return logs, newPageInfo(total, page), nil
}

// GetAuditLogStats summarizes audit logs in [start, end).
func (s *Store) GetAuditLogStats(ctx context.Context, start, end time.Time) (AuditStats, error) {
	stats := AuditStats{
		EventsByType:     make(map[models.EventType]int64),
		EventsBySeverity: make(map[models.EventSeverity]int64),
	}
	base := s.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("event_time >= ? AND event_time < ?", start, end)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalEvents).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("success = ?", true).
		Count(&stats.SuccessCount).Error; err != nil {
		return stats, err
	}
	stats.FailureCount = stats.TotalEvents - stats.SuccessCount

	var byType []struct {
		EventType models.EventType
		Count     int64
	}
	if err := base.Session(&gorm.Session{}).Select("event_type, COUNT(*) AS count").
		Group("event_type").Scan(&byType).Error; err != nil {
		return stats, err
	}
	for _, row := range byType {
		stats.EventsByType[row.EventType] = row.Count
	}

	var bySeverity []struct {
		Severity models.EventSeverity
		Count    int64
	}
	if err := base.Session(&gorm.Session{}).Select("severity, COUNT(*) AS count").
		Group("severity").Scan(&bySeverity).Error; err != nil {
		return stats, err
	}
	for _, row := range bySeverity {
		stats.EventsBySeverity[row.Severity] = row.Count
	}
	return stats, nil
}

// DeleteOldAuditLogs removes entries older than cutoff and reports how many.
func (s *Store) DeleteOldAuditLogs(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("event_time < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
