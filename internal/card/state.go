package card

// State is the transient interaction state of one card instance: the set
// of expanded forecast days and the single active detail popup. It lives
// for the lifetime of the card and deliberately survives data refreshes,
// so a user's expanded days stay expanded when the backend pushes a new
// snapshot.
//
// Transitions are pure: they take a state value and return the next one,
// leaving the input untouched, so they can be tested without any
// rendering.
type State struct {
	Expanded     map[string]bool
	ActiveDetail string // "<day_id>-<period_name>", empty when no popup is open
}

// NewState returns the initial state: nothing expanded, no popup.
func NewState() State {
	return State{Expanded: map[string]bool{}}
}

func (s State) clone() State {
	next := State{
		Expanded:     make(map[string]bool, len(s.Expanded)),
		ActiveDetail: s.ActiveDetail,
	}
	for id := range s.Expanded {
		next.Expanded[id] = true
	}
	return next
}

// IsExpanded reports whether a forecast day is expanded.
func (s State) IsExpanded(dayID string) bool {
	return s.Expanded[dayID]
}

// AnyExpanded reports whether any forecast day is expanded. The toggle-all
// header label is a pure function of this.
func (s State) AnyExpanded() bool {
	return len(s.Expanded) > 0
}

// DetailKey builds the compound identifier addressing exactly one popup.
func DetailKey(dayID, periodName string) string {
	return dayID + "-" + periodName
}

// ToggleDay flips the expansion of a single forecast day.
func ToggleDay(s State, dayID string) State {
	next := s.clone()
	if next.Expanded[dayID] {
		delete(next.Expanded, dayID)
	} else {
		next.Expanded[dayID] = true
	}
	return next
}

// ToggleAll collapses everything if any day is expanded, otherwise expands
// every given day. The decision is "any expanded", not "all expanded": a
// partially expanded forecast collapses fully.
func ToggleAll(s State, allDayIDs []string) State {
	next := s.clone()
	if len(next.Expanded) > 0 {
		next.Expanded = map[string]bool{}
		return next
	}
	for _, id := range allDayIDs {
		next.Expanded[id] = true
	}
	return next
}

// ToggleDetail opens the popup for one (day, period) pair, closing any
// other open popup; toggling the already-open pair closes it. At most one
// popup is ever active.
func ToggleDetail(s State, dayID, periodName string) State {
	next := s.clone()
	key := DetailKey(dayID, periodName)
	if next.ActiveDetail == key {
		next.ActiveDetail = ""
	} else {
		next.ActiveDetail = key
	}
	return next
}

// CloseDetail closes the popup unconditionally (backdrop click).
func CloseDetail(s State) State {
	next := s.clone()
	next.ActiveDetail = ""
	return next
}
