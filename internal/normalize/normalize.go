// Package normalize converts the score entity's raw forecast attribute,
// in any of its historical schema variants, into one canonical in-memory
// forecast that the rest of the card consumes.
//
// Two shapes exist in the wild, with no version marker:
//
//   - an ordered array of day records, scores as 0-1 fractions
//   - a mapping of date string to day record, scores on the legacy 0-10
//     scale
//
// Shape is detected structurally, once, at this boundary; everything
// downstream is shape-agnostic.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Daz-Mac/fishing-assistant/internal/classify"
	"github.com/Daz-Mac/fishing-assistant/internal/metrics"
)

// PeriodNames is the fixed period order. Absent periods are skipped, never
// fabricated.
var PeriodNames = [4]string{"morning", "afternoon", "evening", "night"}

// Conditions are the optional per-period weather values shown in the
// detail popup.
type Conditions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
	WindGust    *float64 `json:"wind_gust,omitempty"`
	WaveHeight  *float64 `json:"wave_height,omitempty"`
}

// Period is one canonical time block of a forecast day.
type Period struct {
	Name            string                `json:"name"`
	ScorePct        int                   `json:"score_pct"`
	Safety          classify.SafetyStatus `json:"safety_status"`
	SafetyReasons   []string              `json:"safety_reasons,omitempty"`
	TideState       string                `json:"tide_state,omitempty"`
	Conditions      *Conditions           `json:"conditions,omitempty"`
	ComponentScores map[string]float64    `json:"component_scores,omitempty"`
}

// Day is one canonical forecast day with up to four ordered periods.
type Day struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	AvgScorePct int      `json:"avg_score_pct"`
	Rating      string   `json:"rating,omitempty"`
	Periods     []Period `json:"periods"`
}

// Forecast is the canonical ordered day sequence. It is rebuilt on every
// render and never persisted.
type Forecast []Day

// FindPeriod resolves a (day id, period name) pair, used to validate
// detail popup keys against the current forecast.
func (f Forecast) FindPeriod(dayID, periodName string) (Period, bool) {
	for _, d := range f {
		if d.ID != dayID {
			continue
		}
		for _, p := range d.Periods {
			if p.Name == periodName {
				return p, true
			}
		}
	}
	return Period{}, false
}

// DayIDs returns the ids of every day in source order.
func (f Forecast) DayIDs() []string {
	ids := make([]string, 0, len(f))
	for _, d := range f {
		ids = append(ids, d.ID)
	}
	return ids
}

// Normalize converts a raw forecast attribute into the canonical shape,
// truncated to maxDays entries in source order. An absent, empty, or
// unrecognizable payload yields an empty forecast; the card then omits the
// forecast section entirely.
func Normalize(raw json.RawMessage, maxDays int) Forecast {
	if len(raw) == 0 || maxDays <= 0 {
		return nil
	}
	v := gjson.ParseBytes(raw)
	switch {
	case v.IsArray():
		metrics.ForecastShapes.WithLabelValues("array").Inc()
		return normalizeArray(v, maxDays)
	case v.IsObject():
		metrics.ForecastShapes.WithLabelValues("mapping").Inc()
		return normalizeMapping(v, maxDays)
	}
	metrics.ForecastShapes.WithLabelValues("invalid").Inc()
	return nil
}

// normalizeArray handles the modern shape: an ordered array of day
// records with scores as 0-1 fractions.
func normalizeArray(v gjson.Result, maxDays int) Forecast {
	var out Forecast
	for idx, dayVal := range v.Array() {
		if len(out) >= maxDays {
			break
		}
		id := dayVal.Get("date").String()
		if id == "" {
			id = dayVal.Get("datetime").String()
		}
		if id == "" {
			id = strconv.Itoa(idx)
		}
		day := Day{
			ID:          id,
			DisplayName: displayName(dayVal.Get("day_name").String(), id),
			AvgScorePct: scorePct(dayVal.Get("score"), scaleFraction),
			Rating:      dayVal.Get("rating").String(),
			Periods:     normalizePeriods(dayVal.Get("periods"), scaleFraction),
		}
		out = append(out, day)
	}
	return out
}

// normalizeMapping handles the legacy shape: a mapping of date string to
// day record, with daily averages on the 0-10 scale.
func normalizeMapping(v gjson.Result, maxDays int) Forecast {
	var out Forecast
	v.ForEach(func(key, dayVal gjson.Result) bool {
		if len(out) >= maxDays {
			return false
		}
		if !dayVal.IsObject() {
			return true
		}
		id := key.String()
		day := Day{
			ID:          id,
			DisplayName: displayName(dayVal.Get("day_name").String(), id),
			AvgScorePct: scorePct(dayVal.Get("daily_avg_score"), scaleDecimal),
			Rating:      dayVal.Get("rating").String(),
			Periods:     normalizePeriods(dayVal.Get("periods"), scaleLegacy),
		}
		out = append(out, day)
		return true
	})
	return out
}

// Score scale handling. The array shape always carries 0-1 fractions; the
// legacy mapping shape carries 0-10 decimals, except that some originating
// versions wrote period scores as fractions too. There is no version
// marker, so scaleLegacy disambiguates per value: anything at or below 1
// is read as a fraction, anything above as a 0-10 decimal.
type scoreScale int

const (
	scaleFraction scoreScale = iota // 0-1
	scaleDecimal                    // 0-10
	scaleLegacy                     // 0-10, fractions tolerated
)

func scorePct(v gjson.Result, scale scoreScale) int {
	if !v.Exists() {
		return 0
	}
	f := v.Float()
	var pct float64
	switch scale {
	case scaleDecimal:
		pct = f * 10
	case scaleLegacy:
		if f <= 1 {
			pct = f * 100
		} else {
			pct = f * 10
		}
	default:
		pct = f * 100
	}
	return clampPct(int(math.Round(pct)))
}

func clampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func normalizePeriods(v gjson.Result, scale scoreScale) []Period {
	if !v.IsObject() {
		return nil
	}
	var out []Period
	for _, name := range PeriodNames {
		pv := v.Get(name)
		if !pv.IsObject() {
			continue
		}
		out = append(out, normalizePeriod(name, pv, scale))
	}
	return out
}

func normalizePeriod(name string, pv gjson.Result, scale scoreScale) Period {
	p := Period{
		Name:     name,
		ScorePct: scorePct(pv.Get("score"), scale),
	}

	p.Safety, p.SafetyReasons = classify.Safety(rawOf(pv.Get("safety")))
	if len(p.SafetyReasons) == 0 {
		for _, r := range pv.Get("safety_reasons").Array() {
			p.SafetyReasons = append(p.SafetyReasons, r.String())
		}
	}

	if tide := pv.Get("tide_state").String(); tide != "" && tide != "n/a" {
		p.TideState = tide
	}

	p.Conditions = normalizeConditions(pv)

	if cs := pv.Get("component_scores"); cs.IsObject() {
		p.ComponentScores = floatMap(cs)
	}

	return p
}

// normalizeConditions reads weather values from whichever variant the
// period carries: a nested conditions/weather object or flat fields.
func normalizeConditions(pv gjson.Result) *Conditions {
	nested := pv.Get("conditions")
	if !nested.IsObject() {
		nested = pv.Get("weather")
	}

	lookup := func(field string) *float64 {
		if nested.IsObject() {
			if v := nested.Get(field); v.Exists() {
				f := v.Float()
				return &f
			}
		}
		if v := pv.Get(field); v.Exists() {
			f := v.Float()
			return &f
		}
		return nil
	}

	c := &Conditions{
		Temperature: lookup("temperature"),
		WindSpeed:   lookup("wind_speed"),
		WindGust:    lookup("wind_gust"),
		WaveHeight:  lookup("wave_height"),
	}
	if c.Temperature == nil && c.WindSpeed == nil && c.WindGust == nil && c.WaveHeight == nil {
		return nil
	}
	return c
}

func floatMap(v gjson.Result) map[string]float64 {
	m := make(map[string]float64)
	v.ForEach(func(key, val gjson.Result) bool {
		m[key.String()] = val.Float()
		return true
	})
	if len(m) == 0 {
		return nil
	}
	return m
}

func rawOf(v gjson.Result) json.RawMessage {
	if !v.Exists() {
		return nil
	}
	return json.RawMessage(v.Raw)
}

// displayName prefers the payload's day_name, then a weekday derived from
// a date-shaped id, then the id itself.
func displayName(dayName, id string) string {
	if dayName != "" {
		return dayName
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, id); err == nil {
			return t.Weekday().String()[:3] + " " + t.Format("Jan 2")
		}
	}
	return id
}
