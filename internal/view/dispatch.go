package view

import "github.com/fixdesk/fixdesk/internal/catalog"

// ActionKind names a UI action.
type ActionKind string

const (
	ActionSelectTab  ActionKind = "select_tab"
	ActionSearch     ActionKind = "search"
	ActionOpenDetail ActionKind = "open_detail"
	ActionCloseModal ActionKind = "close_modal"
)

// Action is one UI event routed to the machine. Fields beyond Kind are
// action-specific.
type Action struct {
	Kind   ActionKind
	Tab    Tab          // select_tab, search
	Query  string       // search
	Entity catalog.Kind // open_detail
	ID     int          // open_detail
}

// Effect tells the caller what the transition requires of the outside
// world; the machine itself stays free of rendering and networking.
type Effect struct {
	// SyncNeeded is the catalog to sync, or "" when none.
	SyncNeeded catalog.Kind
	// Refused is set when an open_detail hit a stale reference and the
	// modal stayed closed.
	Refused bool
}

// transitions is the dispatch table from action to machine transition.
var transitions = map[ActionKind]func(*Machine, Action) Effect{
	ActionSelectTab: func(m *Machine, a Action) Effect {
		if m.SelectTab(a.Tab) {
			return Effect{SyncNeeded: a.Tab.Kind()}
		}
		return Effect{}
	},
	ActionSearch: func(m *Machine, a Action) Effect {
		m.SetQuery(a.Tab, a.Query)
		return Effect{}
	},
	ActionOpenDetail: func(m *Machine, a Action) Effect {
		return Effect{Refused: !m.OpenDetail(a.Entity, a.ID)}
	},
	ActionCloseModal: func(m *Machine, a Action) Effect {
		m.CloseModal()
		return Effect{}
	},
}

// Dispatch routes an action through the transition table. Unknown actions
// are ignored.
func (m *Machine) Dispatch(a Action) Effect {
	transition, ok := transitions[a.Kind]
	if !ok {
		return Effect{}
	}
	return transition(m, a)
}
