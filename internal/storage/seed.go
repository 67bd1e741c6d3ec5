package storage

import (
	"fmt"
	"time"
)

type seedDevice struct {
	name, description, tags string
}

type seedGuide struct {
	category, title, description, typ, fileID, url string
	devices                                        []int // 1-based index into seedDevices
}

var seedDevices = []seedDevice{
	{"iPhone 15 Pro", "Apple's flagship with a titanium body", "Apple, iPhone, Pro"},
	{"Samsung Galaxy S24", "Powerful Android smartphone with AI features", "Samsung, Android, Galaxy"},
	{"Pixel 9", "Google's phone with seven years of updates", "Google, Android, Pixel"},
}

var seedGuides = []seedGuide{
	{CategoryInstruction, "iPhone 15 Pro initial setup", "Step-by-step first-time setup walkthrough", "PDF", "seed-file-iphone-setup", "", []int{1}},
	{CategoryInstruction, "Installing apps on Galaxy S24", "How to install and configure applications", "VIDEO", "", "https://example.com/guides/galaxy-apps", []int{2}},
	{CategoryInstruction, "Transferring data between phones", "Moving contacts, photos, and chats to a new device", "PDF", "seed-file-transfer", "", []int{1, 2, 3}},
	{CategoryRecipe, "iPhone restore procedure", "Restoring an iPhone from a backup", "PDF", "seed-file-iphone-restore", "", []int{1}},
	{CategoryRecipe, "Galaxy S24 screen replacement", "Disassembly and display module swap", "VIDEO", "", "https://example.com/guides/s24-screen", []int{2}},
}

// Seed inserts the demo catalog unless devices already exist.
func (s *Store) Seed() error {
	n, err := s.CountDevices()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}

	stamp := time.Now().UTC().Format(time.RFC3339)

	deviceIDs := make([]int64, len(seedDevices))
	for i, d := range seedDevices {
		res, err := tx.Exec(`
			INSERT INTO devices (name, description, tags, created_at)
			VALUES (?, ?, ?, ?)`, d.name, d.description, d.tags, stamp)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding device %q: %w", d.name, err)
		}
		if deviceIDs[i], err = res.LastInsertId(); err != nil {
			tx.Rollback()
			return fmt.Errorf("reading seeded device id: %w", err)
		}
	}

	for _, g := range seedGuides {
		res, err := tx.Exec(`
			INSERT INTO guides (category, title, description, type, file_id, url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.category, g.title, g.description, g.typ, g.fileID, g.url, stamp)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding guide %q: %w", g.title, err)
		}
		guideID, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("reading seeded guide id: %w", err)
		}
		for _, ref := range g.devices {
			if _, err := tx.Exec(`
				INSERT INTO guide_devices (guide_id, device_id)
				VALUES (?, ?)`, guideID, deviceIDs[ref-1]); err != nil {
				tx.Rollback()
				return fmt.Errorf("linking guide %q: %w", g.title, err)
			}
		}
	}

	return tx.Commit()
}
