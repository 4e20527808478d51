package models

import (
	"time"
)

// TraceVisibility controls who can see a GPS trace.
type TraceVisibility string

const (
	TraceVisibilityPrivate      TraceVisibility = "private"
	TraceVisibilityPublic       TraceVisibility = "public"
	TraceVisibilityTrackable    TraceVisibility = "trackable"
	TraceVisibilityIdentifiable TraceVisibility = "identifiable"
)

// ParseTraceVisibility validates a visibility name.
func ParseTraceVisibility(s string) (TraceVisibility, bool) {
	switch v := TraceVisibility(s); v {
	case TraceVisibilityPrivate, TraceVisibilityPublic,
		TraceVisibilityTrackable, TraceVisibilityIdentifiable:
		return v, true
	}
	return "", false
}

// Trace is the metadata of an uploaded GPS trace.
type Trace struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"   json:"id"`
	UserID      string          `gorm:"not null;index"             json:"-"`
	Name        string          `gorm:"not null"                   json:"name"`
	Description string          `gorm:"type:text"                  json:"description"`
	Visibility  TraceVisibility `gorm:"type:varchar(16);not null"  json:"visibility"`
	Points      int             `gorm:"not null;default:0"         json:"points"`
	CreatedAt   time.Time       `json:"timestamp"`
}

// TableName overrides the table name used by Trace to `gpx_files`
func (Trace) TableName() string {
	return "gpx_files"
}
