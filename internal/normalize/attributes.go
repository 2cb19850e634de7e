package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/Daz-Mac/fishing-assistant/internal/models"
)

// speciesUnknown is the backend's sentinel for "no species focus".
const speciesUnknown = "Unknown"

// ParseAttributes decodes the raw attribute bag into the explicit
// optional-field model, resolving the alternative key spellings the
// historical variants used. Absent fields stay zero; nothing here fails.
func ParseAttributes(raw json.RawMessage) models.AttributeBag {
	var bag models.AttributeBag
	if len(raw) == 0 {
		return bag
	}
	v := gjson.ParseBytes(raw)
	if !v.IsObject() {
		return bag
	}

	bag.Location = v.Get("location").String()
	bag.LocationKey = v.Get("location_key").String()
	bag.TideState = v.Get("tide_state").String()
	bag.Habitat = v.Get("habitat").String()
	bag.Rating = v.Get("rating").String()
	bag.ConditionsSummary = v.Get("conditions_summary").String()
	bag.BestWindow = v.Get("best_window").String()

	species := v.Get("species_focus").String()
	if species == "" {
		species = v.Get("fish").String()
	}
	if species != speciesUnknown {
		bag.SpeciesFocus = species
	}

	scores := v.Get("component_scores")
	if !scores.IsObject() {
		scores = v.Get("breakdown.component_scores")
	}
	if scores.IsObject() {
		bag.ComponentScores = floatMap(scores)
	}
	if weights := v.Get("breakdown.weights"); weights.IsObject() {
		bag.Weights = floatMap(weights)
	}

	bag.Safety = rawOf(v.Get("safety"))
	bag.Forecast = rawOf(v.Get("forecast"))

	return bag
}
