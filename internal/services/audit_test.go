package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"
	"github.com/go-authgate/oauth1gate/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitiveDetails(t *testing.T) {
	masked := maskSensitiveDetails(models.AuditDetails{
		"password":       "hunter2",
		"token_secret":   "abc",
		"oauth_verifier": "V",
		"oauth_token":    "abcdefghijklmnopqrst",
		"request_token":  "short",
		"permissions":    "read_prefs",
	})

	assert.Equal(t, "***REDACTED***", masked["password"])
	assert.Equal(t, "***REDACTED***", masked["token_secret"])
	assert.Equal(t, "***REDACTED***", masked["oauth_verifier"])
	assert.Equal(t, "abcdef...st", masked["oauth_token"])
	assert.Equal(t, "short", masked["request_token"])
	assert.Equal(t, "read_prefs", masked["permissions"])

	assert.Nil(t, maskSensitiveDetails(nil))
}

func TestAuditService_DisabledIsNoop(t *testing.T) {
	var nilService *AuditService
	nilService.Log(context.Background(), AuditLogEntry{EventType: models.EventLogout})
	assert.NoError(t, nilService.LogSync(context.Background(), AuditLogEntry{EventType: models.EventLogout}))
	assert.NoError(t, nilService.Shutdown(context.Background()))

	s := setupTestStore(t)
	disabled := NewAuditService(s, false, 0)
	disabled.Log(context.Background(), AuditLogEntry{EventType: models.EventLogout})
	require.NoError(t, disabled.Shutdown(context.Background()))

	logs, _, err := disabled.GetAuditLogs(context.Background(), store.AuditQuery{}, store.Page{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditService_FlushesOnShutdown(t *testing.T) {
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 16)

	user := &models.User{ID: "user-1", DisplayName: "alice"}
	ctx := models.SetUserContext(util.SetIPContext(context.Background(), "203.0.113.9"), user)

	for range 3 {
		svc.Log(ctx, AuditLogEntry{
			EventType:    models.EventTokenRevoked,
			ResourceType: models.ResourceToken,
			Action:       "Access token revoked",
			Success:      true,
		})
	}
	require.NoError(t, svc.LogSync(ctx, AuditLogEntry{
		EventType: models.EventSignatureFailure,
		Severity:  models.SeverityWarning,
		Action:    "Signed API request rejected",
	}))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(shutdownCtx))

	logs, page, err := svc.GetAuditLogs(context.Background(),
		store.AuditQuery{EventType: models.EventTokenRevoked},
		store.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	for _, entry := range logs {
		assert.Equal(t, "user-1", entry.ActorUserID)
		assert.Equal(t, "alice", entry.ActorUsername)
		assert.Equal(t, "203.0.113.9", entry.ActorIP)
		assert.Equal(t, models.SeverityInfo, entry.Severity)
	}

	stats, err := svc.GetAuditLogStats(context.Background(), time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalEvents)
	assert.Equal(t, int64(1), stats.FailureCount)

	deleted, err := svc.CleanupOldLogs(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// a second shutdown is harmless
	require.NoError(t, svc.Shutdown(shutdownCtx))
}
