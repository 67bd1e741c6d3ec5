package storage

import (
	"fmt"
	"time"

	"github.com/fixdesk/fixdesk/internal/catalog"
)

// Guide categories as stored in the guides table.
const (
	CategoryInstruction = "instruction"
	CategoryRecipe      = "recipe"
)

// Devices returns all devices with their forward instruction references.
func (s *Store) Devices() ([]catalog.Device, error) {
	rows, err := s.db.Query(`SELECT id, name, description, tags, created_at FROM devices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []catalog.Device
	for rows.Next() {
		var d catalog.Device
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Tags, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		d.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs, err := s.deviceGuideRefs(CategoryInstruction)
	if err != nil {
		return nil, err
	}
	for i := range devices {
		devices[i].Instructions = refs[devices[i].ID]
	}
	return devices, nil
}

// deviceGuideRefs maps device id to guide refs of the given category.
func (s *Store) deviceGuideRefs(category string) (map[int][]catalog.Ref, error) {
	rows, err := s.db.Query(`
		SELECT gd.device_id, gd.guide_id
		FROM guide_devices gd
		JOIN guides g ON g.id = gd.guide_id
		WHERE g.category = ?
		ORDER BY gd.guide_id`, category)
	if err != nil {
		return nil, fmt.Errorf("querying guide links: %w", err)
	}
	defer rows.Close()

	refs := make(map[int][]catalog.Ref)
	for rows.Next() {
		var deviceID, guideID int
		if err := rows.Scan(&deviceID, &guideID); err != nil {
			return nil, fmt.Errorf("scanning guide link: %w", err)
		}
		refs[deviceID] = append(refs[deviceID], catalog.Ref{ID: guideID})
	}
	return refs, rows.Err()
}

// Guides returns all guides of the given category with their device
// references.
func (s *Store) Guides(category string) ([]catalog.Guide, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, type, file_id, url, created_at
		FROM guides WHERE category = ? ORDER BY id`, category)
	if err != nil {
		return nil, fmt.Errorf("querying guides: %w", err)
	}
	defer rows.Close()

	var guides []catalog.Guide
	for rows.Next() {
		var g catalog.Guide
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Type, &g.FileID, &g.URL, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning guide: %w", err)
		}
		g.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		guides = append(guides, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range guides {
		models, err := s.guideModels(guides[i].ID)
		if err != nil {
			return nil, err
		}
		guides[i].Models = models
	}
	return guides, nil
}

func (s *Store) guideModels(guideID int) ([]catalog.Ref, error) {
	rows, err := s.db.Query(`SELECT device_id FROM guide_devices WHERE guide_id = ? ORDER BY device_id`, guideID)
	if err != nil {
		return nil, fmt.Errorf("querying guide models: %w", err)
	}
	defer rows.Close()

	var refs []catalog.Ref
	for rows.Next() {
		var deviceID int
		if err := rows.Scan(&deviceID); err != nil {
			return nil, fmt.Errorf("scanning guide model: %w", err)
		}
		refs = append(refs, catalog.Ref{ID: deviceID})
	}
	return refs, rows.Err()
}

// TicketsForUser returns the user's most recent tickets, newest first, with
// their messages.
func (s *Store) TicketsForUser(userID int64, limit int) ([]catalog.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, subject, status, created_at
		FROM tickets WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying tickets: %w", err)
	}
	defer rows.Close()

	var tickets []catalog.Ticket
	for rows.Next() {
		var t catalog.Ticket
		var createdAt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		t.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tickets {
		messages, err := s.ticketMessages(tickets[i].ID)
		if err != nil {
			return nil, err
		}
		tickets[i].Messages = messages
	}
	return tickets, nil
}

func (s *Store) ticketMessages(ticketID int) ([]catalog.TicketMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, role, text, created_at
		FROM ticket_messages WHERE ticket_id = ? ORDER BY id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("querying ticket messages: %w", err)
	}
	defer rows.Close()

	var messages []catalog.TicketMessage
	for rows.Next() {
		var m catalog.TicketMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Role, &m.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning ticket message: %w", err)
		}
		m.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// CreateTicket inserts a new open ticket with its first message and returns
// it.
func (s *Store) CreateTicket(userID int64, username, subject, message string) (catalog.Ticket, error) {
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return catalog.Ticket{}, fmt.Errorf("beginning transaction: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO tickets (user_id, username, subject, status, created_at)
		VALUES (?, ?, ?, 'open', ?)`, userID, username, subject, stamp)
	if err != nil {
		tx.Rollback()
		return catalog.Ticket{}, fmt.Errorf("inserting ticket: %w", err)
	}
	ticketID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return catalog.Ticket{}, fmt.Errorf("reading ticket id: %w", err)
	}

	msgRes, err := tx.Exec(`
		INSERT INTO ticket_messages (ticket_id, role, text, created_at)
		VALUES (?, 'user', ?, ?)`, ticketID, message, stamp)
	if err != nil {
		tx.Rollback()
		return catalog.Ticket{}, fmt.Errorf("inserting first message: %w", err)
	}
	msgID, err := msgRes.LastInsertId()
	if err != nil {
		tx.Rollback()
		return catalog.Ticket{}, fmt.Errorf("reading message id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return catalog.Ticket{}, fmt.Errorf("committing ticket: %w", err)
	}

	return catalog.Ticket{
		ID:      int(ticketID),
		UserID:  userID,
		Status:  catalog.StatusOpen,
		Subject: subject,
		Messages: []catalog.TicketMessage{{
			ID:        int(msgID),
			Role:      "user",
			Text:      message,
			CreatedAt: catalog.Timestamp{Time: now},
		}},
		CreatedAt: catalog.Timestamp{Time: now},
	}, nil
}

// CountDevices reports the device table size; used to decide whether to
// seed.
func (s *Store) CountDevices() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM devices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting devices: %w", err)
	}
	return n, nil
}

func parseTime(s string) (catalog.Timestamp, error) {
	if s == "" {
		return catalog.Timestamp{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return catalog.Timestamp{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return catalog.Timestamp{Time: t}, nil
}
