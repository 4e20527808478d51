package models

import (
	"time"
)

// NoteStatus is the lifecycle status of a map note.
type NoteStatus string

const (
	NoteStatusOpen   NoteStatus = "open"
	NoteStatusClosed NoteStatus = "closed"
	NoteStatusHidden NoteStatus = "hidden"
)

// NoteEvent records what a comment did to its note.
type NoteEvent string

const (
	NoteEventOpened    NoteEvent = "opened"
	NoteEventClosed    NoteEvent = "closed"
	NoteEventReopened  NoteEvent = "reopened"
	NoteEventCommented NoteEvent = "commented"
	NoteEventHidden    NoteEvent = "hidden"
)

// MaxNoteBodyLength is the longest body a note or comment may carry.
const MaxNoteBodyLength = 2000

// FreshlyClosedLimit is how long a closed note still shows as recently closed.
const FreshlyClosedLimit = 7 * 24 * time.Hour

// Note is a map note. Author, AuthorIP and Body were added to the note row
// after notes already existed; older rows keep them on the "opened" comment
// only. See ResolveNoteView.
type Note struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	Latitude  int64      `gorm:"not null"` // degrees * 1e7
	Longitude int64      `gorm:"not null"` // degrees * 1e7
	Status    NoteStatus `gorm:"type:varchar(16);not null;default:'open';index"`
	AuthorID  *string    `gorm:"index"`
	AuthorIP  string     `gorm:"type:varchar(45)"`
	Body      *string    `gorm:"type:text"`
	ClosedAt  *time.Time
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Comments []NoteComment `gorm:"foreignKey:NoteID"`
}

// NoteComment is one event in a note's history.
type NoteComment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"  json:"id"`
	NoteID    int64     `gorm:"not null;index"            json:"-"`
	AuthorID  *string   `gorm:"index"                     json:"author_id,omitempty"`
	AuthorIP  string    `gorm:"type:varchar(45)"          json:"-"`
	Body      string    `gorm:"type:text"                 json:"body"`
	Event     NoteEvent `gorm:"type:varchar(16);not null" json:"action"`
	Visible   bool      `gorm:"not null;default:true"     json:"-"`
	CreatedAt time.Time `json:"date"`
}

// IsVisible returns true unless a moderator hid the note
func (n *Note) IsVisible() bool {
	return n.Status != NoteStatusHidden
}

// IsClosed returns true if the note has a close timestamp
func (n *Note) IsClosed() bool {
	return n.ClosedAt != nil
}

// IsFreshlyClosed reports whether the note was closed within FreshlyClosedLimit.
func (n *Note) IsFreshlyClosed(now time.Time) bool {
	return n.ClosedAt != nil && now.Before(n.ClosedAt.Add(FreshlyClosedLimit))
}

// TableName overrides the table name used by Note to `notes`
func (Note) TableName() string {
	return "notes"
}

// TableName overrides the table name used by NoteComment to `note_comments`
func (NoteComment) TableName() string {
	return "note_comments"
}

// NoteView is the read model served by the API.
type NoteView struct {
	ID        int64         `json:"id"`
	Lat       float64       `json:"lat"`
	Lon       float64       `json:"lon"`
	Status    NoteStatus    `json:"status"`
	AuthorID  string        `json:"author_id,omitempty"`
	AuthorIP  string        `json:"-"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
	ClosedAt  *time.Time    `json:"closed_at,omitempty"`
	Comments  []NoteComment `json:"comments"`
}

// ResolveNoteView builds the API view of a note. AuthorID, AuthorIP and
// Body come from the note row when set and otherwise fall back to the
// first "opened" comment.
//
// The fallback can go once every note row has been backfilled with its
// author and body; at that point the note columns become authoritative
// and comments no longer need scanning.
func ResolveNoteView(note *Note, comments []NoteComment) NoteView {
	view := NoteView{
		ID:        note.ID,
		Lat:       float64(note.Latitude) / 1e7,
		Lon:       float64(note.Longitude) / 1e7,
		Status:    note.Status,
		AuthorIP:  note.AuthorIP,
		CreatedAt: note.CreatedAt,
		ClosedAt:  note.ClosedAt,
		Comments:  comments,
	}
	if note.AuthorID != nil {
		view.AuthorID = *note.AuthorID
	}
	if note.Body != nil {
		view.Body = *note.Body
	}

	var opened *NoteComment
	for i := range comments {
		if comments[i].Event == NoteEventOpened {
			opened = &comments[i]
			break
		}
	}
	if opened == nil {
		return view
	}

	if view.AuthorID == "" && opened.AuthorID != nil {
		view.AuthorID = *opened.AuthorID
	}
	if view.AuthorIP == "" {
		view.AuthorIP = opened.AuthorIP
	}
	if note.Body == nil {
		view.Body = opened.Body
	}
	return view
}
