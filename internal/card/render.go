package card

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/classify"
	"github.com/Daz-Mac/fishing-assistant/internal/metrics"
	"github.com/Daz-Mac/fishing-assistant/internal/models"
	"github.com/Daz-Mac/fishing-assistant/internal/normalize"
)

//go:embed templates/*
var templateFS embed.FS

// Renderer turns a snapshot plus interaction state into the card markup.
// The whole tree is rebuilt on every invocation; the markup's day headers,
// period cells and backdrop post back to the interaction endpoints, so the
// rebuilt tree always carries live handlers.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the card templates.
func NewRenderer() *Renderer {
	funcs := template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
	}
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &Renderer{tmpl: tmpl}
}

// Render builds the card markup for one entity snapshot. A nil snapshot
// renders the entity-not-found notice instead of the dashboard.
func (r *Renderer) Render(cardID string, snap *models.EntitySnapshot, siblings SiblingLookup, cfg Config, st State, now time.Time) (template.HTML, error) {
	start := time.Now()
	data := BuildCardData(cardID, snap, siblings, cfg, st, now)

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "card.html", data); err != nil {
		return "", fmt.Errorf("render card %s: %w", cardID, err)
	}

	metrics.CardRenders.WithLabelValues(cardID).Inc()
	metrics.RenderLatency.Observe(time.Since(start).Seconds())
	return template.HTML(buf.String()), nil
}

// BuildCardData assembles the viewmodel. Pure: no I/O beyond the sibling
// lookup, no mutation of the interaction state.
func BuildCardData(cardID string, snap *models.EntitySnapshot, siblings SiblingLookup, cfg Config, st State, now time.Time) CardData {
	data := CardData{
		CardID:   cardID,
		Config:   cfg,
		EntityID: cfg.Entity,
		Title:    "Fishing Conditions",
	}
	if snap == nil {
		return data
	}
	data.Found = true
	data.LastUpdated = snap.UpdatedAt

	bag := normalize.ParseAttributes(snap.Attributes)
	data.Location = bag.Location
	data.Species = bag.SpeciesFocus
	data.Rating = bag.Rating
	data.ConditionsSummary = bag.ConditionsSummary
	data.BestWindow = bag.BestWindow
	data.TideState = bag.TideState
	data.TideIcon = classify.TideIcon(bag.TideState)

	// The backend reports 0-10; the circle shows 0-100.
	score, _ := strconv.ParseFloat(snap.State, 64)
	data.ScorePct = clampPct(int(math.Round(score * 10)))
	tier := classify.ScoreTier(data.ScorePct)
	data.TierColor = tier.Color()
	data.TierLabel = tier.Label()

	data.SafetyStatus, data.SafetyReasons = classify.Safety(bag.Safety)
	data.ShowSafety = data.SafetyStatus == classify.SafetyCaution || data.SafetyStatus == classify.SafetyUnsafe
	data.SafetyColor = data.SafetyStatus.Color()

	if h, ok := classify.HabitatLookup(bag.Habitat); ok {
		data.Habitat = &h
	}

	if cfg.ShowCurrentConditions && siblings != nil && bag.LocationKey != "" {
		data.Conditions = buildConditions(siblings, bag.LocationKey)
	}

	if cfg.ShowComponentScores {
		data.Components = buildComponents(bag.ComponentScores, bag.Weights)
	}

	phase := classify.GetMoonPhase(now)
	data.Moon = MoonView{
		Emoji:        classify.MoonEmoji(phase),
		Name:         classify.MoonName(phase),
		Illumination: classify.MoonIllumination(now),
	}

	if cfg.ShowForecast {
		fc := normalize.Normalize(bag.Forecast, cfg.ForecastDays)
		data.HasForecast = len(fc) > 0
		if data.HasForecast {
			data.Forecast, data.BackdropActive = buildForecast(fc, cfg, st)
			data.ToggleAllLabel = "Expand All"
			if st.AnyExpanded() {
				data.ToggleAllLabel = "Collapse All"
			}
		}
	}

	return data
}

func buildForecast(fc normalize.Forecast, cfg Config, st State) ([]DayView, bool) {
	// A detail key that no longer resolves after a data refresh is
	// treated as closed; nothing dangles.
	activeKey := st.ActiveDetail
	if activeKey != "" && !resolves(fc, activeKey) {
		activeKey = ""
	}

	days := make([]DayView, 0, len(fc))
	for _, d := range fc {
		dv := DayView{
			ID:          d.ID,
			DisplayName: d.DisplayName,
			AvgScorePct: d.AvgScorePct,
			Rating:      d.Rating,
			TierColor:   classify.ScoreTier(d.AvgScorePct).Color(),
			Expanded:    cfg.ExpandForecast || st.IsExpanded(d.ID),
		}
		for _, p := range d.Periods {
			key := DetailKey(d.ID, p.Name)
			tier := classify.ScoreTier(p.ScorePct)
			pv := PeriodView{
				DayID:      d.ID,
				Name:       p.Name,
				Key:        key,
				ScorePct:   p.ScorePct,
				TierColor:  tier.Color(),
				TierLabel:  tier.Label(),
				TideIcon:   classify.TideIcon(p.TideState),
				TideState:  p.TideState,
				Safety:     p.Safety,
				SafetyText: string(p.Safety),
				Reasons:    p.SafetyReasons,
				Conditions: p.Conditions,
				Components: buildComponents(p.ComponentScores, nil),
				Open:       key == activeKey,
			}
			dv.Periods = append(dv.Periods, pv)
		}
		days = append(days, dv)
	}
	return days, activeKey != ""
}

func resolves(fc normalize.Forecast, key string) bool {
	for _, d := range fc {
		for _, p := range d.Periods {
			if DetailKey(d.ID, p.Name) == key {
				return true
			}
		}
	}
	return false
}

var componentLabeler = strings.NewReplacer("_", " ", "-", " ", ".", " ")

func buildComponents(scores, weights map[string]float64) []ComponentBar {
	if len(scores) == 0 {
		return nil
	}
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bars := make([]ComponentBar, 0, len(keys))
	for _, k := range keys {
		pct := clampPct(int(math.Round(scores[k] * 100)))
		bar := ComponentBar{
			Label: componentLabeler.Replace(k),
			Pct:   pct,
			Color: classify.ScoreTier(pct).Color(),
		}
		if w, ok := weights[k]; ok {
			bar.WeightPct = clampPct(int(math.Round(w * 100)))
			bar.HasWeight = true
		}
		bars = append(bars, bar)
	}
	return bars
}

// Display metadata per sibling suffix, in models.SiblingSuffixes order.
var siblingDisplay = map[string]ConditionItem{
	models.SiblingWaveHeight:   {Icon: "🌊", Label: "Wave Height"},
	models.SiblingWavePeriod:   {Icon: "⏱️", Label: "Wave Period"},
	models.SiblingTideState:    {Icon: "🌀", Label: "Tide"},
	models.SiblingTideStrength: {Icon: "🧭", Label: "Tide Strength"},
	models.SiblingWindSpeed:    {Icon: "💨", Label: "Wind"},
	models.SiblingWindGust:     {Icon: "🌬️", Label: "Gusts"},
}

func buildConditions(siblings SiblingLookup, locationKey string) []ConditionItem {
	var items []ConditionItem
	for _, suffix := range models.SiblingSuffixes {
		snap, ok := siblings.Sibling(models.SiblingEntityID(locationKey, suffix))
		if !ok || snap == nil || snap.State == "" {
			continue
		}
		item := siblingDisplay[suffix]
		if suffix == models.SiblingTideState {
			item.Icon = classify.TideIcon(snap.State)
		}
		item.Value = snap.State
		item.Unit = unitOf(snap)
		items = append(items, item)
	}
	return items
}

func unitOf(snap *models.EntitySnapshot) string {
	bag := struct {
		Unit string `json:"unit_of_measurement"`
	}{}
	if len(snap.Attributes) > 0 {
		// Best effort; a sibling without a unit just renders bare.
		_ = json.Unmarshal(snap.Attributes, &bag)
	}
	return bag.Unit
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
