// Package search implements client-side catalog filtering: case-insensitive
// substring matching over an entity's textual fields.
package search

import (
	"strings"

	"github.com/fixdesk/fixdesk/internal/catalog"
)

// Filter returns the items whose extracted fields contain query,
// case-insensitively. A blank query returns items unchanged. The input is
// never mutated; a non-identity result is a fresh slice, so Filter is
// idempotent and safe over shared snapshots.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	var matched []T
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), query) {
				matched = append(matched, item)
				break
			}
		}
	}
	if matched == nil {
		// Distinguish "no results" from an unfiltered empty collection.
		return []T{}
	}
	return matched
}

// DeviceFields extracts the searchable text of a device.
func DeviceFields(d catalog.Device) []string {
	return []string{d.Name, d.Description}
}

// GuideFields extracts the searchable text of an instruction or recipe.
func GuideFields(g catalog.Guide) []string {
	return []string{g.Title, g.Description}
}

// TicketFields extracts the searchable text of a ticket.
func TicketFields(t catalog.Ticket) []string {
	return []string{t.Subject, string(t.Status)}
}

// Devices filters a device collection.
func Devices(devices []catalog.Device, query string) []catalog.Device {
	return Filter(devices, query, DeviceFields)
}

// Guides filters an instruction or recipe collection.
func Guides(guides []catalog.Guide, query string) []catalog.Guide {
	return Filter(guides, query, GuideFields)
}

// Tickets filters a ticket collection.
func Tickets(tickets []catalog.Ticket, query string) []catalog.Ticket {
	return Filter(tickets, query, TicketFields)
}
