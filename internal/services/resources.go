package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"
)

// ResourceService implements the API resources that access tokens protect:
// preferences, GPS trace metadata and notes. Permission checks happen in
// middleware before any of these run.
type ResourceService struct {
	store *store.Store
	now   func() time.Time
}

func NewResourceService(s *store.Store) *ResourceService {
	return &ResourceService{store: s, now: time.Now}
}

// Preferences

func (s *ResourceService) ListPreferences(ctx context.Context, userID string) ([]models.UserPreference, error) {
	return s.store.ListPreferences(ctx, userID)
}

func (s *ResourceService) GetPreference(ctx context.Context, userID, key string) (*models.UserPreference, error) {
	pref, err := s.store.GetPreference(ctx, userID, key)
	return pref, notFound(err)
}

func (s *ResourceService) SetPreference(ctx context.Context, userID, key, value string) error {
	if err := validatePreference(key, value); err != nil {
		return err
	}
	return s.store.UpsertPreference(ctx, &models.UserPreference{UserID: userID, Key: key, Value: value})
}

// ReplacePreferences swaps the whole set in one transaction.
func (s *ResourceService) ReplacePreferences(ctx context.Context, userID string, prefs map[string]string) error {
	list := make([]models.UserPreference, 0, len(prefs))
	for key, value := range prefs {
		if err := validatePreference(key, value); err != nil {
			return err
		}
		list = append(list, models.UserPreference{UserID: userID, Key: key, Value: value})
	}
	return s.store.ReplacePreferences(ctx, userID, list)
}

func (s *ResourceService) DeletePreference(ctx context.Context, userID, key string) error {
	return notFound(s.store.DeletePreference(ctx, userID, key))
}

func validatePreference(key, value string) error {
	if key == "" || utf8.RuneCountInString(key) > models.MaxPreferenceLength {
		return fmt.Errorf("%w: preference key must be 1-%d characters", ErrInvalidInput, models.MaxPreferenceLength)
	}
	if utf8.RuneCountInString(value) > models.MaxPreferenceLength {
		return fmt.Errorf("%w: preference value longer than %d characters", ErrInvalidInput, models.MaxPreferenceLength)
	}
	return nil
}

// Traces

func (s *ResourceService) ListTraces(ctx context.Context, userID string) ([]models.Trace, error) {
	return s.store.ListTracesByUser(ctx, userID)
}

// GetTrace returns trace metadata visible to viewer: their own traces and
// other users' public or identifiable ones.
func (s *ResourceService) GetTrace(ctx context.Context, id int64, viewer *models.User) (*models.Trace, error) {
	trace, err := s.store.GetTrace(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if trace.UserID != viewer.ID &&
		trace.Visibility != models.TraceVisibilityPublic &&
		trace.Visibility != models.TraceVisibilityIdentifiable {
		return nil, ErrNotResourceOwner
	}
	return trace, nil
}

func (s *ResourceService) CreateTrace(
	ctx context.Context,
	owner *models.User,
	name, description, visibility string,
) (*models.Trace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: trace name is required", ErrInvalidInput)
	}
	vis, ok := models.ParseTraceVisibility(visibility)
	if !ok {
		return nil, fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, visibility)
	}

	trace := &models.Trace{
		UserID:      owner.ID,
		Name:        name,
		Description: description,
		Visibility:  vis,
	}
	if err := s.store.CreateTrace(ctx, trace); err != nil {
		return nil, err
	}
	return trace, nil
}

// Notes

// CreateNote opens a note at lat/lon. author may be nil for anonymous notes.
func (s *ResourceService) CreateNote(
	ctx context.Context,
	lat, lon float64,
	text string,
	author *models.User,
	ip string,
) (*models.NoteView, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if err := validateNoteText(text, true); err != nil {
		return nil, err
	}

	note := &models.Note{
		Latitude:  int64(math.Round(lat * 1e7)),
		Longitude: int64(math.Round(lon * 1e7)),
		Status:    models.NoteStatusOpen,
		AuthorIP:  ip,
		Body:      &text,
	}
	opened := &models.NoteComment{AuthorIP: ip, Body: text, Visible: true}
	if author != nil {
		note.AuthorID = &author.ID
		opened.AuthorID = &author.ID
	}
	if err := s.store.CreateNote(ctx, note, opened); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, note.ID)
}

// GetNote returns the resolved view of a visible note.
func (s *ResourceService) GetNote(ctx context.Context, id int64) (*models.NoteView, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !note.IsVisible() {
		return nil, ErrResourceNotFound
	}
	view := models.ResolveNoteView(note, note.Comments)
	return &view, nil
}

// CloseNote closes an open note with an optional comment.
func (s *ResourceService) CloseNote(
	ctx context.Context,
	id int64,
	text string,
	actor *models.User,
	ip string,
) (*models.NoteView, error) {
	now := s.now()
	return s.changeNoteStatus(ctx, id, text, actor, ip, models.NoteStatusClosed, &now, models.NoteEventClosed)
}

// ReopenNote reopens a closed note with an optional comment.
func (s *ResourceService) ReopenNote(
	ctx context.Context,
	id int64,
	text string,
	actor *models.User,
	ip string,
) (*models.NoteView, error) {
	return s.changeNoteStatus(ctx, id, text, actor, ip, models.NoteStatusOpen, nil, models.NoteEventReopened)
}

func (s *ResourceService) changeNoteStatus(
	ctx context.Context,
	id int64,
	text string,
	actor *models.User,
	ip string,
	status models.NoteStatus,
	closedAt *time.Time,
	event models.NoteEvent,
) (*models.NoteView, error) {
	if err := validateNoteText(text, false); err != nil {
		return nil, err
	}
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !note.IsVisible() {
		return nil, ErrResourceNotFound
	}
	if note.Status == status {
		if status == models.NoteStatusClosed {
			return nil, ErrNoteClosed
		}
		return nil, fmt.Errorf("%w: note is already open", ErrInvalidInput)
	}

	comment := &models.NoteComment{
		AuthorID: &actor.ID,
		AuthorIP: ip,
		Body:     text,
		Event:    event,
		Visible:  true,
	}
	if err := s.store.SetNoteStatus(ctx, note, status, closedAt, comment); err != nil {
		if errors.Is(err, store.ErrStaleRecord) {
			return nil, fmt.Errorf("%w: note changed concurrently", ErrInvalidInput)
		}
		return nil, err
	}
	return s.GetNote(ctx, id)
}

func validateNoteText(text string, required bool) error {
	if required && strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: note text is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > models.MaxNoteBodyLength {
		return fmt.Errorf("%w: note text longer than %d characters", ErrInvalidInput, models.MaxNoteBodyLength)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return ErrResourceNotFound
	}
	return err
}
