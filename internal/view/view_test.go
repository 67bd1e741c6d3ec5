package view

import (
	"testing"

	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/store"
)

func seededStore() *store.Store {
	st := store.New()
	st.ReplaceDevices([]catalog.Device{
		{ID: 1, Name: "iPhone 15 Pro", Description: "Apple's flagship with a titanium body"},
		{ID: 2, Name: "Samsung Galaxy S24", Description: "Powerful Android smartphone with AI features"},
	})
	st.ReplaceInstructions([]catalog.Guide{
		{ID: 10, Title: "iPhone setup", Models: []catalog.Ref{{ID: 1}}},
		{ID: 11, Title: "Galaxy apps", Models: []catalog.Ref{{ID: 2}}},
	})
	st.ReplaceRecipes([]catalog.Guide{
		{ID: 20, Title: "iPhone restore", Models: []catalog.Ref{{ID: 1}}},
	})
	return st
}

func TestInitialState(t *testing.T) {
	m := New(store.New())

	if m.Tab() != TabDevices {
		t.Errorf("initial tab = %q, want devices", m.Tab())
	}
	if m.Modal() != nil {
		t.Error("initial modal open")
	}
	if m.Phase() != Bootstrapping {
		t.Errorf("initial phase = %v, want Bootstrapping", m.Phase())
	}
}

func TestSelectTabReportsSyncNeed(t *testing.T) {
	st := seededStore()
	m := New(st)

	if m.SelectTab(TabInstructions) {
		t.Error("instructions already loaded, no sync needed")
	}
	if m.Tab() != TabInstructions {
		t.Errorf("tab = %q after select", m.Tab())
	}

	// The support tab's catalog has never been synced.
	if !m.SelectTab(TabSupport) {
		t.Error("support tab should need a sync")
	}
}

func TestOpenDetailRefusedOnMissingID(t *testing.T) {
	m := New(seededStore())

	if m.OpenDetail(catalog.KindDevices, 99) {
		t.Error("OpenDetail resolved a missing id")
	}
	if m.Modal() != nil {
		t.Error("modal opened despite refused transition")
	}
}

func TestOpenAndCloseModal(t *testing.T) {
	m := New(seededStore())

	if !m.OpenDetail(catalog.KindDevices, 1) {
		t.Fatal("OpenDetail(1) refused")
	}
	modal := m.Modal()
	if modal == nil || modal.Kind != catalog.KindDevices || modal.ID != 1 {
		t.Fatalf("modal = %+v", modal)
	}

	m.CloseModal()
	if m.Modal() != nil {
		t.Error("modal still open after CloseModal")
	}
	// CloseModal is legal when already closed.
	m.CloseModal()
}

func TestSearchLeavesTabAndModalAlone(t *testing.T) {
	m := New(seededStore())
	m.OpenDetail(catalog.KindDevices, 1)

	m.SetQuery(TabDevices, "galaxy")

	if m.Tab() != TabDevices {
		t.Errorf("tab changed to %q", m.Tab())
	}
	if m.Modal() == nil {
		t.Error("modal closed by search input")
	}
	if m.Query(TabDevices) != "galaxy" {
		t.Errorf("query = %q", m.Query(TabDevices))
	}
	// Queries are per tab.
	if m.Query(TabRecipes) != "" {
		t.Errorf("recipes query = %q, want empty", m.Query(TabRecipes))
	}
}

func TestSnapshotFiltersAndCounts(t *testing.T) {
	m := New(seededStore())
	m.SetQuery(TabDevices, "galaxy")

	snap := m.Snapshot()
	if len(snap.Devices) != 1 {
		t.Fatalf("got %d rows, want 1", len(snap.Devices))
	}
	row := snap.Devices[0]
	if row.Device.Name != "Samsung Galaxy S24" {
		t.Errorf("row = %q", row.Device.Name)
	}
	if row.InstructionCount != 1 || row.RecipeCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", row.InstructionCount, row.RecipeCount)
	}
	if snap.Empty != NotEmpty {
		t.Errorf("Empty = %v, want NotEmpty", snap.Empty)
	}
}

func TestSnapshotEmptyStates(t *testing.T) {
	st := seededStore()
	m := New(st)

	// Never synced: the support catalog.
	m.SelectTab(TabSupport)
	if snap := m.Snapshot(); snap.Empty != NeverLoaded {
		t.Errorf("unsynced tab Empty = %v, want NeverLoaded", snap.Empty)
	}

	// Synced but empty.
	st.ReplaceTickets(nil)
	if snap := m.Snapshot(); snap.Empty != EmptyCollection {
		t.Errorf("empty catalog Empty = %v, want EmptyCollection", snap.Empty)
	}

	// Loaded with entries, query matches nothing.
	m.SelectTab(TabDevices)
	m.SetQuery(TabDevices, "nokia")
	if snap := m.Snapshot(); snap.Empty != NoResults {
		t.Errorf("no-match Empty = %v, want NoResults", snap.Empty)
	}
}

func TestSnapshotDeviceModal(t *testing.T) {
	m := New(seededStore())
	m.OpenDetail(catalog.KindDevices, 1)

	snap := m.Snapshot()
	if snap.Modal == nil || snap.Modal.Device == nil {
		t.Fatalf("modal content = %+v", snap.Modal)
	}
	detail := snap.Modal.Device
	if detail.Device.ID != 1 {
		t.Errorf("modal device = %+v", detail.Device)
	}
	if len(detail.Instructions) != 1 || detail.Instructions[0].ID != 10 {
		t.Errorf("modal instructions = %+v", detail.Instructions)
	}
	if len(detail.Recipes) != 1 || detail.Recipes[0].ID != 20 {
		t.Errorf("modal recipes = %+v", detail.Recipes)
	}
}

func TestDispatchTable(t *testing.T) {
	m := New(seededStore())

	effect := m.Dispatch(Action{Kind: ActionSelectTab, Tab: TabSupport})
	if effect.SyncNeeded != catalog.KindTickets {
		t.Errorf("SyncNeeded = %q, want tickets", effect.SyncNeeded)
	}

	effect = m.Dispatch(Action{Kind: ActionOpenDetail, Entity: catalog.KindDevices, ID: 42})
	if !effect.Refused {
		t.Error("stale open_detail not refused")
	}

	m.Dispatch(Action{Kind: ActionSearch, Tab: TabDevices, Query: "iphone"})
	if m.Query(TabDevices) != "iphone" {
		t.Errorf("query = %q", m.Query(TabDevices))
	}

	m.Dispatch(Action{Kind: ActionOpenDetail, Entity: catalog.KindRecipes, ID: 20})
	m.Dispatch(Action{Kind: ActionCloseModal})
	if m.Modal() != nil {
		t.Error("modal open after close_modal dispatch")
	}

	if effect := m.Dispatch(Action{Kind: "resize"}); effect != (Effect{}) {
		t.Errorf("unknown action effect = %+v", effect)
	}
}
