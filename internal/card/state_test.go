package card

import "testing"

func TestToggleDayIsItsOwnInverse(t *testing.T) {
	s := NewState()

	s1 := ToggleDay(s, "2024-01-01")
	if !s1.IsExpanded("2024-01-01") {
		t.Fatal("day should be expanded after first toggle")
	}

	s2 := ToggleDay(s1, "2024-01-01")
	if s2.IsExpanded("2024-01-01") {
		t.Error("day should be collapsed after second toggle")
	}
	if len(s2.Expanded) != len(s.Expanded) {
		t.Errorf("double toggle should restore the set, got %v", s2.Expanded)
	}
}

func TestToggleDayLeavesInputUntouched(t *testing.T) {
	s := NewState()
	_ = ToggleDay(s, "a")
	if s.IsExpanded("a") {
		t.Error("transition mutated its input state")
	}

	s1 := ToggleDay(s, "a")
	_ = ToggleDay(s1, "b")
	if s1.IsExpanded("b") {
		t.Error("transition mutated its input state")
	}
}

func TestToggleAll(t *testing.T) {
	days := []string{"a", "b", "c"}
	s := NewState()

	expanded := ToggleAll(s, days)
	for _, id := range days {
		if !expanded.IsExpanded(id) {
			t.Errorf("day %q should be expanded after expand-all", id)
		}
	}

	collapsed := ToggleAll(expanded, days)
	if collapsed.AnyExpanded() {
		t.Errorf("second toggle-all should collapse everything, got %v", collapsed.Expanded)
	}
}

func TestToggleAllCollapsesPartialExpansion(t *testing.T) {
	days := []string{"a", "b", "c"}
	s := ToggleDay(NewState(), "b")

	// Any day expanded means toggle-all collapses, even though not all
	// days are expanded.
	next := ToggleAll(s, days)
	if next.AnyExpanded() {
		t.Errorf("partially expanded forecast should collapse fully, got %v", next.Expanded)
	}
}

func TestToggleDetail(t *testing.T) {
	s := NewState()

	s1 := ToggleDetail(s, "2024-01-01", "morning")
	if s1.ActiveDetail != "2024-01-01-morning" {
		t.Fatalf("active detail = %q", s1.ActiveDetail)
	}

	// Same pair toggles it closed.
	s2 := ToggleDetail(s1, "2024-01-01", "morning")
	if s2.ActiveDetail != "" {
		t.Errorf("active detail should be cleared, got %q", s2.ActiveDetail)
	}

	// A different pair replaces rather than accumulates.
	s3 := ToggleDetail(s1, "2024-01-02", "evening")
	if s3.ActiveDetail != "2024-01-02-evening" {
		t.Errorf("active detail = %q, want replacement", s3.ActiveDetail)
	}
}

func TestCloseDetail(t *testing.T) {
	s := ToggleDetail(NewState(), "a", "morning")
	closed := CloseDetail(s)
	if closed.ActiveDetail != "" {
		t.Errorf("active detail = %q, want empty", closed.ActiveDetail)
	}
	// Closing an already-closed popup is a no-op.
	if again := CloseDetail(closed); again.ActiveDetail != "" {
		t.Errorf("active detail = %q, want empty", again.ActiveDetail)
	}
}

func TestDetailDoesNotAffectExpansion(t *testing.T) {
	s := ToggleDay(NewState(), "a")
	s = ToggleDetail(s, "a", "morning")
	if !s.IsExpanded("a") {
		t.Error("opening a detail popup must not collapse the day")
	}
	s = CloseDetail(s)
	if !s.IsExpanded("a") {
		t.Error("closing a detail popup must not collapse the day")
	}
}
