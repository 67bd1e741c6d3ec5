// Package ticket validates and submits support requests, then reconciles
// local ticket state against the server.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fixdesk/fixdesk/internal/bridge"
	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/remote"
	"github.com/fixdesk/fixdesk/internal/syncer"
)

// subjectLimit caps the derived subject length, in runes.
const subjectLimit = 100

// Validation failures detected before any network call.
var (
	ErrEmptyMessage = errors.New("support message is empty")
	ErrNoIdentity   = errors.New("no authenticated user identity")
)

// Creator is the subset of the remote client the service needs.
type Creator interface {
	CreateTicket(ctx context.Context, nt remote.NewTicket) (catalog.Ticket, error)
}

// Resyncer reloads the ticket catalog after a successful write. The new
// ticket's true id and status are only known server-side, so the service
// re-fetches instead of inserting optimistically.
type Resyncer interface {
	Sync(ctx context.Context, kind catalog.Kind) syncer.Result
}

// Service files support tickets. It owns the pending input draft: the draft
// is cleared on a successful submit and kept intact on failure so the user
// can retry.
type Service struct {
	api    Creator
	resync Resyncer
	host   bridge.Bridge

	mu    sync.Mutex
	draft string
}

// NewService returns a Service notifying through host.
func NewService(api Creator, resync Resyncer, host bridge.Bridge) *Service {
	return &Service{api: api, resync: resync, host: host}
}

// SetDraft replaces the pending input.
func (s *Service) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Draft returns the pending input.
func (s *Service) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Submit validates and files the pending draft. Whitespace-only input and a
// missing identity are rejected locally with no network call. On success the
// draft is cleared, a success alert is shown, and the ticket catalog is
// re-synced; on a remote failure an error alert is shown and the draft
// survives.
func (s *Service) Submit(ctx context.Context) error {
	message := strings.TrimSpace(s.Draft())
	if message == "" {
		s.host.Notify(bridge.Error, "Please describe your problem")
		return ErrEmptyMessage
	}

	user, ok := s.host.Identity()
	if !ok {
		s.host.Notify(bridge.Error, "No user identity available")
		return ErrNoIdentity
	}

	created, err := s.api.CreateTicket(ctx, remote.NewTicket{
		UserID:   user.ID,
		Username: user.Username,
		Subject:  subject(message),
		Message:  message,
	})
	if err != nil {
		s.host.Notify(bridge.Error, "Failed to create support request")
		return fmt.Errorf("submitting ticket: %w", err)
	}

	s.SetDraft("")
	s.host.Notify(bridge.Success, "Support request created")
	slog.Info("ticket submitted", "id", created.ID, "status", created.Status)

	s.resync.Sync(ctx, catalog.KindTickets)
	return nil
}

// subject derives the ticket subject: the message truncated to subjectLimit
// runes.
func subject(message string) string {
	runes := []rune(message)
	if len(runes) <= subjectLimit {
		return message
	}
	return string(runes[:subjectLimit])
}
