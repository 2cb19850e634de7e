package card

import (
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/classify"
	"github.com/Daz-Mac/fishing-assistant/internal/models"
	"github.com/Daz-Mac/fishing-assistant/internal/normalize"
)

// SiblingLookup resolves companion sensor entities by id. Absence of any
// sibling omits that condition item, never fails.
type SiblingLookup interface {
	Sibling(entityID string) (*models.EntitySnapshot, bool)
}

// CardData is everything the card template needs, built fresh on every
// render.
type CardData struct {
	CardID   string
	Config   Config
	EntityID string
	Found    bool

	Title    string
	Location string
	Species  string

	ScorePct  int
	TierColor string
	TierLabel string

	SafetyStatus  classify.SafetyStatus
	SafetyReasons []string
	ShowSafety    bool
	SafetyColor   string

	Rating            string
	ConditionsSummary string
	BestWindow        string

	TideIcon  string
	TideState string

	Habitat    *classify.Habitat
	Conditions []ConditionItem
	Components []ComponentBar

	HasForecast    bool
	Forecast       []DayView
	ToggleAllLabel string
	BackdropActive bool

	Moon        MoonView
	LastUpdated time.Time
}

// MoonView is the header moon phase line.
type MoonView struct {
	Emoji        string
	Name         string
	Illumination int
}

// ConditionItem is one entry of the current-conditions grid.
type ConditionItem struct {
	Icon  string
	Label string
	Value string
	Unit  string
}

// ComponentBar is one component-score breakdown bar.
type ComponentBar struct {
	Label     string
	Pct       int
	Color     string
	WeightPct int
	HasWeight bool
}

// DayView is one forecast day block.
type DayView struct {
	ID          string
	DisplayName string
	AvgScorePct int
	Rating      string
	TierColor   string
	Expanded    bool
	Periods     []PeriodView
}

// PeriodView is one period cell plus its (hidden unless open) detail
// popup. It carries the full normalized period so the popup renders
// without re-querying the forecast.
type PeriodView struct {
	DayID      string
	Name       string
	Key        string
	ScorePct   int
	TierColor  string
	TierLabel  string
	TideIcon   string
	TideState  string
	Safety     classify.SafetyStatus
	SafetyText string
	Reasons    []string
	Conditions *normalize.Conditions
	Components []ComponentBar
	Open       bool
}
