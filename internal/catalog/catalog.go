// Package catalog defines the four catalog entities served by the remote
// service: devices, instructions, recipes, and support tickets.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies one of the four catalogs.
type Kind string

const (
	KindDevices      Kind = "devices"
	KindInstructions Kind = "instructions"
	KindRecipes      Kind = "recipes"
	KindTickets      Kind = "tickets"
)

// Kinds lists all catalogs in their canonical tab order.
func Kinds() []Kind {
	return []Kind{KindDevices, KindInstructions, KindRecipes, KindTickets}
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDevices:
		return KindDevices, nil
	case KindInstructions:
		return KindInstructions, nil
	case KindRecipes:
		return KindRecipes, nil
	case KindTickets:
		return KindTickets, nil
	}
	return "", fmt.Errorf("unknown catalog %q", s)
}

// Ref is an id-based weak reference to an entity in another catalog.
// The referenced id may not be present in the currently loaded collection.
type Ref struct {
	ID int `json:"id"`
}

// Device is a serviceable device model.
type Device struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`

	// Instructions holds the server-side forward references. The reverse
	// scan over Guide.Models is authoritative for what belongs to a
	// device; this field may be stale or empty.
	Instructions []Ref `json:"instructions,omitempty"`
}

// ContentKind describes how a guide's content is retrieved.
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentFile
	ContentLink
)

// Guide is the shared shape of instructions and repair recipes: a titled,
// typed document attached to zero or more devices.
type Guide struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
	Models      []Ref     `json:"models,omitempty"`
	FileID      string    `json:"tg_file_id,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// Content reports whether the guide is backed by a hosted file, an external
// link, or nothing retrievable.
func (g Guide) Content() ContentKind {
	switch {
	case g.FileID != "":
		return ContentFile
	case g.URL != "":
		return ContentLink
	}
	return ContentNone
}

// References reports whether the guide's Models list contains deviceID.
func (g Guide) References(deviceID int) bool {
	for _, ref := range g.Models {
		if ref.ID == deviceID {
			return true
		}
	}
	return false
}

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusClosed     TicketStatus = "closed"
)

// Label returns a human-readable form of the status. Unknown statuses pass
// through unchanged so new server-side states still display.
func (s TicketStatus) Label() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusInProgress:
		return "in progress"
	case StatusClosed:
		return "closed"
	}
	return string(s)
}

// TicketMessage is one message in a ticket's conversation.
type TicketMessage struct {
	ID        int       `json:"id"`
	Role      string    `json:"role,omitempty"`
	Text      string    `json:"text,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// Ticket is a support request owned by a single user.
type Ticket struct {
	ID        int             `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    TicketStatus    `json:"status"`
	Subject   string          `json:"subject,omitempty"`
	Messages  []TicketMessage `json:"messages,omitempty"`
	CreatedAt Timestamp       `json:"created_at"`
}

// MessageCount derives the displayed message count from the messages list.
func (t Ticket) MessageCount() int {
	return len(t.Messages)
}

// Timestamp is a time.Time that tolerates the remote service's timestamp
// encodings: RFC 3339, ISO 8601 without zone, or null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON parses the timestamp, leaving the zero value for null or an
// empty string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON encodes the timestamp as RFC 3339, or null when zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}
