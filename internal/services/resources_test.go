package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-authgate/oauth1gate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService_Preferences(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.UserStatusActive)
	bob := env.createUser(t, "bob", models.UserStatusActive)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	require.NoError(t, svc.SetPreference(ctx, alice.ID, "editor", "id"))
	require.NoError(t, svc.SetPreference(ctx, alice.ID, "editor", "josm"))
	require.NoError(t, svc.SetPreference(ctx, bob.ID, "editor", "potlatch"))

	pref, err := svc.GetPreference(ctx, alice.ID, "editor")
	require.NoError(t, err)
	assert.Equal(t, "josm", pref.Value)

	_, err = svc.GetPreference(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	require.NoError(t, svc.ReplacePreferences(ctx, alice.ID, map[string]string{"a": "1", "b": "2"}))
	prefs, err := svc.ListPreferences(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, prefs, 2)

	require.NoError(t, svc.DeletePreference(ctx, alice.ID, "a"))
	assert.ErrorIs(t, svc.DeletePreference(ctx, alice.ID, "a"), ErrResourceNotFound)

	pref, err = svc.GetPreference(ctx, bob.ID, "editor")
	require.NoError(t, err)
	assert.Equal(t, "potlatch", pref.Value)

	long := strings.Repeat("x", models.MaxPreferenceLength+1)
	assert.ErrorIs(t, svc.SetPreference(ctx, alice.ID, "", "v"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetPreference(ctx, alice.ID, long, "v"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetPreference(ctx, alice.ID, "k", long), ErrInvalidInput)
	assert.ErrorIs(t, svc.ReplacePreferences(ctx, alice.ID, map[string]string{"k": long}), ErrInvalidInput)
}

func TestResourceService_TraceVisibility(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.UserStatusActive)
	bob := env.createUser(t, "bob", models.UserStatusActive)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	_, err := svc.CreateTrace(ctx, alice, " ", "", "public")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateTrace(ctx, alice, "ride", "", "secret")
	assert.ErrorIs(t, err, ErrInvalidInput)

	tests := []struct {
		visibility string
		bobSees    bool
	}{
		{"private", false},
		{"trackable", false},
		{"public", true},
		{"identifiable", true},
	}
	for _, tt := range tests {
		t.Run(tt.visibility, func(t *testing.T) {
			trace, err := svc.CreateTrace(ctx, alice, "ride "+tt.visibility, "", tt.visibility)
			require.NoError(t, err)

			got, err := svc.GetTrace(ctx, trace.ID, alice)
			require.NoError(t, err)
			assert.Equal(t, trace.Name, got.Name)

			_, err = svc.GetTrace(ctx, trace.ID, bob)
			if tt.bobSees {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNotResourceOwner)
			}
		})
	}

	traces, err := svc.ListTraces(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, traces, 4)

	_, err = svc.GetTrace(ctx, 9999, alice)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceService_NoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.UserStatusActive)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, 51.5, -0.1, "Missing footpath", alice, "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, models.NoteStatusOpen, note.Status)
	assert.Equal(t, alice.ID, note.AuthorID)
	assert.Equal(t, "Missing footpath", note.Body)
	assert.InDelta(t, 51.5, note.Lat, 1e-7)
	assert.InDelta(t, -0.1, note.Lon, 1e-7)
	require.Len(t, note.Comments, 1)
	assert.Equal(t, models.NoteEventOpened, note.Comments[0].Event)

	closed, err := svc.CloseNote(ctx, note.ID, "Fixed", alice, "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, models.NoteStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.WithinDuration(t, time.Now(), *closed.ClosedAt, time.Minute)
	assert.Len(t, closed.Comments, 2)

	_, err = svc.CloseNote(ctx, note.ID, "", alice, "192.0.2.1")
	assert.ErrorIs(t, err, ErrNoteClosed)

	reopened, err := svc.ReopenNote(ctx, note.ID, "", alice, "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, models.NoteStatusOpen, reopened.Status)
	assert.Nil(t, reopened.ClosedAt)
	assert.Equal(t, models.NoteEventReopened, reopened.Comments[2].Event)

	_, err = svc.ReopenNote(ctx, note.ID, "", alice, "192.0.2.1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResourceService_NoteValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, 91, 0, "text", nil, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateNote(ctx, 0, 181, "text", nil, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateNote(ctx, 0, 0, "  ", nil, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateNote(ctx, 0, 0, strings.Repeat("x", models.MaxNoteBodyLength+1), nil, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	anonymous, err := svc.CreateNote(ctx, 0, 0, "anonymous note", nil, "198.51.100.7")
	require.NoError(t, err)
	assert.Empty(t, anonymous.AuthorID)

	_, err = svc.GetNote(ctx, 9999)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceService_HiddenNote(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.UserStatusActive)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	view, err := svc.CreateNote(ctx, 1, 1, "spam", nil, "")
	require.NoError(t, err)

	note, err := env.store.GetNote(ctx, view.ID)
	require.NoError(t, err)
	require.NoError(t, env.store.SetNoteStatus(ctx, note, models.NoteStatusHidden, nil,
		&models.NoteComment{AuthorID: &alice.ID, Event: models.NoteEventHidden}))

	_, err = svc.GetNote(ctx, view.ID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	_, err = svc.CloseNote(ctx, view.ID, "", alice, "")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceService_NoteCoordinatesRound(t *testing.T) {
	env := newTestEnv(t)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	tests := []struct {
		lat, lon         float64
		wantLat, wantLon int64
	}{
		{0.57, 0.29, 5700000, 2900000},
		{-0.57, -0.29, -5700000, -2900000},
		{51.5074456, -0.1277653, 515074456, -1277653},
		{90, -180, 900000000, -1800000000},
	}
	for _, tt := range tests {
		view, err := svc.CreateNote(ctx, tt.lat, tt.lon, "coordinates", nil, "")
		require.NoError(t, err)
		assert.Equal(t, tt.lat, view.Lat)
		assert.Equal(t, tt.lon, view.Lon)

		stored, err := env.store.GetNote(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.wantLat, stored.Latitude)
		assert.Equal(t, tt.wantLon, stored.Longitude)
	}
}

func TestResourceService_CommentsFollowAuthorStatus(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.UserStatusConfirmed)
	bob := env.createUser(t, "bob", models.UserStatusActive)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, 10, 10, "Bridge is closed", alice, "")
	require.NoError(t, err)
	closed, err := svc.CloseNote(ctx, note.ID, "spam from bob", bob, "")
	require.NoError(t, err)
	require.Len(t, closed.Comments, 2)

	_, err = env.users.Suspend(ctx, bob.ID, alice)
	require.NoError(t, err)

	view, err := svc.GetNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, models.NoteEventOpened, view.Comments[0].Event)
	assert.Equal(t, models.NoteStatusClosed, view.Status)

	_, err = env.users.Unsuspend(ctx, bob.ID, alice)
	require.NoError(t, err)
	view, err = svc.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, view.Comments, 2)
}

func TestResourceService_HiddenAuthorDoesNotFeedFallback(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.UserStatusConfirmed)
	bob := env.createUser(t, "bob", models.UserStatusActive)
	svc := NewResourceService(env.store)
	ctx := context.Background()

	// A note row from before author and body were stored on the note itself.
	legacy := &models.Note{Latitude: 100000000, Longitude: 100000000, Status: models.NoteStatusOpen}
	opened := &models.NoteComment{AuthorID: &bob.ID, AuthorIP: "192.0.2.8", Body: "spam from bob", Visible: true}
	require.NoError(t, env.store.CreateNote(ctx, legacy, opened))

	view, err := svc.GetNote(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, view.AuthorID)
	assert.Equal(t, "spam from bob", view.Body)

	_, err = env.users.Hide(ctx, bob.ID, alice)
	require.NoError(t, err)

	view, err = svc.GetNote(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Comments)
	assert.Empty(t, view.AuthorID)
	assert.Empty(t, view.AuthorIP)
	assert.Empty(t, view.Body)
}
