package models

import (
	"encoding/json"
	"time"
)

// EntitySnapshot is one pushed state of a sensor entity. The state of a
// fishing score entity is a numeric string on the 0.0-10.0 scale; sibling
// sensors (wave height, tide state, ...) carry their own units.
type EntitySnapshot struct {
	EntityID   string          `json:"entity_id"`
	State      string          `json:"state"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AttributeBag is the explicit optional-field view of a score entity's
// attributes. Every historical schema variant decodes into this one shape;
// polymorphic fields (safety, forecast) stay raw and are interpreted by
// classify and normalize respectively.
type AttributeBag struct {
	Location          string
	LocationKey       string
	SpeciesFocus      string
	TideState         string
	Habitat           string
	Rating            string
	ConditionsSummary string
	BestWindow        string
	ComponentScores   map[string]float64
	Weights           map[string]float64
	Safety            json.RawMessage
	Forecast          json.RawMessage
}

// Sibling entity suffixes resolved via the sensor.<location_key>_<suffix>
// naming convention.
const (
	SiblingWaveHeight   = "wave_height"
	SiblingWavePeriod   = "wave_period"
	SiblingTideState    = "tide_state"
	SiblingTideStrength = "tide_strength"
	SiblingWindSpeed    = "wind_speed"
	SiblingWindGust     = "wind_gust"
)

// SiblingSuffixes lists the companion sensors a card may resolve, in
// display order.
var SiblingSuffixes = []string{
	SiblingWaveHeight,
	SiblingWavePeriod,
	SiblingTideState,
	SiblingTideStrength,
	SiblingWindSpeed,
	SiblingWindGust,
}

// SiblingEntityID builds the conventional entity id for a companion sensor.
func SiblingEntityID(locationKey, suffix string) string {
	return "sensor." + locationKey + "_" + suffix
}
