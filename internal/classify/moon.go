package classify

import (
	"math"
	"time"
)

// TimeOfDay is the lighting period used for banner imagery.
type TimeOfDay string

const (
	TimeDawn  TimeOfDay = "dawn"
	TimeDay   TimeOfDay = "day"
	TimeDusk  TimeOfDay = "dusk"
	TimeNight TimeOfDay = "night"
)

// GetTimeOfDay returns the time-of-day category for a local time.
func GetTimeOfDay(t time.Time) TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 7:
		return TimeDawn
	case hour >= 7 && hour < 17:
		return TimeDay
	case hour >= 17 && hour < 20:
		return TimeDusk
	default:
		return TimeNight
	}
}

// MoonPhase represents the current lunar phase. Moonlight feeds both the
// Moon component score on the backend and the banner prompts here.
type MoonPhase string

const (
	MoonNew            MoonPhase = "new"
	MoonWaxingCrescent MoonPhase = "waxing_crescent"
	MoonFirstQuarter   MoonPhase = "first_quarter"
	MoonWaxingGibbous  MoonPhase = "waxing_gibbous"
	MoonFull           MoonPhase = "full"
	MoonWaningGibbous  MoonPhase = "waning_gibbous"
	MoonLastQuarter    MoonPhase = "last_quarter"
	MoonWaningCrescent MoonPhase = "waning_crescent"
)

// LunarCycle is approximately 29.53 days.
const LunarCycle = 29.53

// moonRef is a known new moon: January 6, 2000 18:14 UTC.
var moonRef = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

func cyclePos(t time.Time) float64 {
	days := t.Sub(moonRef).Hours() / 24
	pos := math.Mod(days, LunarCycle)
	if pos < 0 {
		pos += LunarCycle
	}
	return pos
}

// GetMoonPhase calculates the moon phase for a given date.
func GetMoonPhase(t time.Time) MoonPhase {
	phase := int((cyclePos(t) / LunarCycle) * 8)
	switch phase {
	case 0:
		return MoonNew
	case 1:
		return MoonWaxingCrescent
	case 2:
		return MoonFirstQuarter
	case 3:
		return MoonWaxingGibbous
	case 4:
		return MoonFull
	case 5:
		return MoonWaningGibbous
	case 6:
		return MoonLastQuarter
	default:
		return MoonWaningCrescent
	}
}

// MoonIllumination returns approximate illumination percentage (0-100).
func MoonIllumination(t time.Time) int {
	angle := (cyclePos(t) / LunarCycle) * 2 * math.Pi
	return int((1 - math.Cos(angle)) / 2 * 100)
}

// MoonEmoji returns the glyph for a moon phase.
func MoonEmoji(phase MoonPhase) string {
	switch phase {
	case MoonNew:
		return "🌑"
	case MoonWaxingCrescent:
		return "🌒"
	case MoonFirstQuarter:
		return "🌓"
	case MoonWaxingGibbous:
		return "🌔"
	case MoonFull:
		return "🌕"
	case MoonWaningGibbous:
		return "🌖"
	case MoonLastQuarter:
		return "🌗"
	case MoonWaningCrescent:
		return "🌘"
	default:
		return "🌙"
	}
}

// MoonName returns a human-readable phase name.
func MoonName(phase MoonPhase) string {
	switch phase {
	case MoonNew:
		return "New Moon"
	case MoonWaxingCrescent:
		return "Waxing Crescent"
	case MoonFirstQuarter:
		return "First Quarter"
	case MoonWaxingGibbous:
		return "Waxing Gibbous"
	case MoonFull:
		return "Full Moon"
	case MoonWaningGibbous:
		return "Waning Gibbous"
	case MoonLastQuarter:
		return "Last Quarter"
	case MoonWaningCrescent:
		return "Waning Crescent"
	default:
		return "Moon"
	}
}
