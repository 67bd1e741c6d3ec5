// Package store holds the in-memory catalog collections for one application
// session. It is the sole mutation point: collections are replaced wholesale
// by the sync layer and read as immutable snapshots by everything else.
package store

import (
	"sync"

	"github.com/fixdesk/fixdesk/internal/catalog"
)

// Store holds the four catalog collections. The zero value is not usable;
// call New.
type Store struct {
	mu sync.RWMutex

	devices      []catalog.Device
	instructions []catalog.Guide
	recipes      []catalog.Guide
	tickets      []catalog.Ticket

	loaded map[catalog.Kind]bool
}

// New returns an empty store with no collection marked as loaded.
func New() *Store {
	return &Store{loaded: make(map[catalog.Kind]bool, 4)}
}

// ReplaceDevices swaps the device collection atomically.
func (s *Store) ReplaceDevices(devices []catalog.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = devices
	s.loaded[catalog.KindDevices] = true
}

// ReplaceInstructions swaps the instruction collection atomically.
func (s *Store) ReplaceInstructions(guides []catalog.Guide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = guides
	s.loaded[catalog.KindInstructions] = true
}

// ReplaceRecipes swaps the recipe collection atomically.
func (s *Store) ReplaceRecipes(guides []catalog.Guide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = guides
	s.loaded[catalog.KindRecipes] = true
}

// ReplaceTickets swaps the ticket collection atomically.
func (s *Store) ReplaceTickets(tickets []catalog.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
	s.loaded[catalog.KindTickets] = true
}

// Devices returns the current device collection snapshot. Callers must not
// mutate the returned slice.
func (s *Store) Devices() []catalog.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices
}

// Instructions returns the current instruction collection snapshot.
func (s *Store) Instructions() []catalog.Guide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instructions
}

// Recipes returns the current recipe collection snapshot.
func (s *Store) Recipes() []catalog.Guide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipes
}

// Tickets returns the current ticket collection snapshot.
func (s *Store) Tickets() []catalog.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickets
}

// Loaded reports whether the collection has been replaced at least once this
// session. An empty loaded collection is distinct from a never-synced one.
func (s *Store) Loaded(kind catalog.Kind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[kind]
}

// Len returns the current size of the given collection.
func (s *Store) Len(kind catalog.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case catalog.KindDevices:
		return len(s.devices)
	case catalog.KindInstructions:
		return len(s.instructions)
	case catalog.KindRecipes:
		return len(s.recipes)
	case catalog.KindTickets:
		return len(s.tickets)
	}
	return 0
}

// DeviceByID looks up a device by id. The second return is false on a miss.
func (s *Store) DeviceByID(id int) (catalog.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.devices {
		if d.ID == id {
			return d, true
		}
	}
	return catalog.Device{}, false
}

// InstructionByID looks up an instruction by id.
func (s *Store) InstructionByID(id int) (catalog.Guide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return guideByID(s.instructions, id)
}

// RecipeByID looks up a recipe by id.
func (s *Store) RecipeByID(id int) (catalog.Guide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return guideByID(s.recipes, id)
}

// TicketByID looks up a ticket by id.
func (s *Store) TicketByID(id int) (catalog.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return catalog.Ticket{}, false
}

func guideByID(guides []catalog.Guide, id int) (catalog.Guide, bool) {
	for _, g := range guides {
		if g.ID == id {
			return g, true
		}
	}
	return catalog.Guide{}, false
}
