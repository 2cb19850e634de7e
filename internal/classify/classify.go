package classify

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Tier is the display tier for a 0-100 score percentage.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierPoor      Tier = "poor"
)

// ScoreTier partitions a 0-100 score percentage at 40 and 70.
func ScoreTier(scorePct int) Tier {
	switch {
	case scorePct >= 70:
		return TierExcellent
	case scorePct >= 40:
		return TierGood
	default:
		return TierPoor
	}
}

// Color returns the hex color used for the score circle and bars.
func (t Tier) Color() string {
	switch t {
	case TierExcellent:
		return "#4caf50"
	case TierGood:
		return "#ff9800"
	default:
		return "#f44336"
	}
}

// Label returns the user-facing tier label.
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	default:
		return "Poor"
	}
}

// Tide state codes emitted by the backend sensor.
const (
	TideHigh      = "high_tide"
	TideSlackHigh = "slack_high"
	TideLow       = "low_tide"
	TideSlackLow  = "slack_low"
	TideRising    = "rising"
	TideFalling   = "falling"
)

var tideIcons = map[string]string{
	TideHigh:      "🌊",
	TideSlackHigh: "🔆",
	TideLow:       "🏖️",
	TideSlackLow:  "🔅",
	TideRising:    "📈",
	TideFalling:   "📉",
}

// TideIcon maps a tide state code to its display glyph. Unknown or absent
// states get the neutral wave glyph.
func TideIcon(state string) string {
	if icon, ok := tideIcons[state]; ok {
		return icon
	}
	return "〰️"
}

// SafetyStatus is the normalized safety classification.
type SafetyStatus string

const (
	SafetySafe    SafetyStatus = "safe"
	SafetyCaution SafetyStatus = "caution"
	SafetyUnsafe  SafetyStatus = "unsafe"
	SafetyUnknown SafetyStatus = "unknown"
)

// Color returns the banner color for a safety status.
func (s SafetyStatus) Color() string {
	switch s {
	case SafetySafe:
		return "#4caf50"
	case SafetyCaution:
		return "#ff9800"
	case SafetyUnsafe:
		return "#f44336"
	default:
		return "#9e9e9e"
	}
}

func safetyStatus(s string) SafetyStatus {
	switch SafetyStatus(s) {
	case SafetySafe, SafetyCaution, SafetyUnsafe:
		return SafetyStatus(s)
	}
	return SafetyUnknown
}

// Safety interprets the polymorphic safety attribute: either a bare status
// string or an object {status, reasons}. Absent or unrecognized values
// classify as unknown with no reasons.
func Safety(raw json.RawMessage) (SafetyStatus, []string) {
	if len(raw) == 0 {
		return SafetyUnknown, nil
	}
	v := gjson.ParseBytes(raw)
	switch {
	case v.Type == gjson.String:
		return safetyStatus(v.String()), nil
	case v.IsObject():
		status := safetyStatus(v.Get("status").String())
		var reasons []string
		for _, r := range v.Get("reasons").Array() {
			reasons = append(reasons, r.String())
		}
		return status, reasons
	}
	return SafetyUnknown, nil
}

// Habitat is a named fishing-location category with fixed safety
// thresholds.
type Habitat struct {
	Key     string
	Name    string
	Icon    string
	MaxWind float64 // km/h
	MaxGust float64 // km/h
	MaxWave float64 // meters
}

var habitats = map[string]Habitat{
	"open_beach":  {Key: "open_beach", Name: "Open Sandy Beach", Icon: "🏖️", MaxWind: 25, MaxGust: 40, MaxWave: 2.0},
	"rocky_point": {Key: "rocky_point", Name: "Rocky Point/Reef", Icon: "🪨", MaxWind: 30, MaxGust: 45, MaxWave: 3.0},
	"harbour":     {Key: "harbour", Name: "Harbour/Breakwater", Icon: "⚓", MaxWind: 35, MaxGust: 50, MaxWave: 1.5},
	"reef":        {Key: "reef", Name: "Offshore Reef", Icon: "🪸", MaxWind: 20, MaxGust: 35, MaxWave: 2.5},
	"lake":        {Key: "lake", Name: "Lake", Icon: "🛶", MaxWind: 25, MaxGust: 40, MaxWave: 0.5},
	"river":       {Key: "river", Name: "River", Icon: "🎣", MaxWind: 30, MaxGust: 45, MaxWave: 0.3},
	"pond":        {Key: "pond", Name: "Pond", Icon: "🪷", MaxWind: 35, MaxGust: 50, MaxWave: 0.2},
}

// HabitatLookup resolves a habitat preset key. Unknown keys return
// ok=false and the habitat panel is omitted.
func HabitatLookup(key string) (Habitat, bool) {
	h, ok := habitats[key]
	return h, ok
}
