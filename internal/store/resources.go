package store

import (
	"context"
	"time"

	"github.com/go-authgate/oauth1gate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Preference operations
func (s *Store) ListPreferences(ctx context.Context, userID string) ([]models.UserPreference, error) {
	var prefs []models.UserPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("pref_key").Find(&prefs).Error
	return prefs, err
}

func (s *Store) GetPreference(ctx context.Context, userID, key string) (*models.UserPreference, error) {
	var pref models.UserPreference
	err := s.db.WithContext(ctx).Where("user_id = ? AND pref_key = ?", userID, key).First(&pref).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &pref, nil
}

// UpsertPreference creates or replaces a single preference.
func (s *Store) UpsertPreference(ctx context.Context, pref *models.UserPreference) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(pref).Error
}

// ReplacePreferences swaps the whole preference set of a user atomically.
func (s *Store) ReplacePreferences(
	ctx context.Context,
	userID string,
	prefs []models.UserPreference,
) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserPreference{}).Error; err != nil {
			return err
		}
		if len(prefs) == 0 {
			return nil
		}
		return tx.Create(&prefs).Error
	})
}

func (s *Store) DeletePreference(ctx context.Context, userID, key string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND pref_key = ?", userID, key).
		Delete(&models.UserPreference{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Trace operations
func (s *Store) ListTracesByUser(ctx context.Context, userID string) ([]models.Trace, error) {
	var traces []models.Trace
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&traces).Error
	return traces, err
}

func (s *Store) GetTrace(ctx context.Context, id int64) (*models.Trace, error) {
	var trace models.Trace
	if err := s.db.WithContext(ctx).First(&trace, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &trace, nil
}

func (s *Store) CreateTrace(ctx context.Context, trace *models.Trace) error {
	return s.db.WithContext(ctx).Create(trace).Error
}

// Note operations

// CreateNote inserts a note together with its "opened" comment.
func (s *Store) CreateNote(ctx context.Context, note *models.Note, opened *models.NoteComment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(note).Error; err != nil {
			return err
		}
		opened.NoteID = note.ID
		opened.Event = models.NoteEventOpened
		return tx.Create(opened).Error
	})
}

// commentAuthorStatuses are the account statuses whose note comments stay
// public. Comments by suspended, hidden or unconfirmed accounts drop out.
var commentAuthorStatuses = []models.UserStatus{
	models.UserStatusActive,
	models.UserStatusConfirmed,
}

// GetNote loads a note and its public comments in creation order: visible
// comments that are anonymous or written by an account in good standing.
func (s *Store) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	var note models.Note
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Select("note_comments.*").
				Joins("LEFT JOIN users ON users.id = note_comments.author_id").
				Where("note_comments.visible = ?", true).
				Where("(note_comments.author_id IS NULL OR users.status IN ?)", commentAuthorStatuses).
				Order("note_comments.created_at, note_comments.id")
		}).
		First(&note, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &note, nil
}

// SetNoteStatus changes the status of a note and appends the comment
// recording the change.
func (s *Store) SetNoteStatus(
	ctx context.Context,
	note *models.Note,
	status models.NoteStatus,
	closedAt *time.Time,
	comment *models.NoteComment,
) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Note{}).
			Where("id = ? AND status = ?", note.ID, note.Status).
			Select("status", "closed_at", "updated_at").
			Updates(&models.Note{Status: status, ClosedAt: closedAt, UpdatedAt: time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleRecord
		}
		comment.NoteID = note.ID
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		note.Status = status
		note.ClosedAt = closedAt
		return nil
	})
}
