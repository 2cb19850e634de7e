package card

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/sjson"
)

// Config is the merged card configuration. Entity is required; everything
// else has a default and is recognized by the render pipeline.
type Config struct {
	Entity                string `json:"entity"`
	ShowForecast          bool   `json:"show_forecast"`
	ShowCurrentConditions bool   `json:"show_current_conditions"`
	CompactMode           bool   `json:"compact_mode"`
	ForecastDays          int    `json:"forecast_days"`
	ExpandForecast        bool   `json:"expand_forecast"`
	ShowComponentScores   bool   `json:"show_component_scores"`
}

// ErrMissingEntity blocks card instantiation until an entity id is
// configured.
var ErrMissingEntity = errors.New("card config: entity id is required")

// DefaultConfig returns the defaults merged under any user configuration.
func DefaultConfig() Config {
	return Config{
		ShowForecast:          true,
		ShowCurrentConditions: true,
		ForecastDays:          5,
		ShowComponentScores:   true,
	}
}

// ParseConfig merges a raw user configuration over the defaults. A missing
// entity id is a configuration error reported synchronously; out-of-range
// forecast_days is clamped to [1,7] rather than rejected.
func ParseConfig(raw json.RawMessage) (Config, error) {
	cfg := DefaultConfig()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("card config: %w", err)
		}
	}
	if cfg.Entity == "" {
		return Config{}, ErrMissingEntity
	}
	if cfg.ForecastDays < 1 {
		cfg.ForecastDays = 1
	}
	if cfg.ForecastDays > 7 {
		cfg.ForecastDays = 7
	}
	return cfg, nil
}

// Options the config editor may change, mapped to their value kind.
var configOptions = map[string]string{
	"entity":                  "string",
	"show_forecast":           "bool",
	"show_current_conditions": "bool",
	"compact_mode":            "bool",
	"forecast_days":           "int",
	"expand_forecast":         "bool",
	"show_component_scores":   "bool",
}

// SetOption applies a single editor change onto the stored configuration
// JSON and returns the updated document. The editor emits one change per
// interaction, so the stored config is patched in place rather than
// rewritten wholesale.
func SetOption(raw json.RawMessage, option, value string) (json.RawMessage, error) {
	kind, ok := configOptions[option]
	if !ok {
		return nil, fmt.Errorf("card config: unknown option %q", option)
	}
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	var (
		out []byte
		err error
	)
	switch kind {
	case "bool":
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			return nil, fmt.Errorf("card config: option %q wants a boolean, got %q", option, value)
		}
		out, err = sjson.SetBytes(raw, option, b)
	case "int":
		n, perr := strconv.Atoi(value)
		if perr != nil {
			return nil, fmt.Errorf("card config: option %q wants an integer, got %q", option, value)
		}
		out, err = sjson.SetBytes(raw, option, n)
	default:
		out, err = sjson.SetBytes(raw, option, value)
	}
	if err != nil {
		return nil, fmt.Errorf("card config: set %q: %w", option, err)
	}
	return out, nil
}

// Notification is the configuration-changed payload: the full merged
// configuration, consumed by the host to persist dashboard config.
func (c Config) Notification() json.RawMessage {
	b, _ := json.Marshal(c)
	return b
}
