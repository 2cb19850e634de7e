package classify

import (
	"testing"
	"time"
)

func TestGetTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{0, TimeNight},
		{4, TimeNight},
		{5, TimeDawn},
		{6, TimeDawn},
		{7, TimeDay},
		{12, TimeDay},
		{16, TimeDay},
		{17, TimeDusk},
		{19, TimeDusk},
		{20, TimeNight},
		{23, TimeNight},
	}
	for _, tt := range tests {
		ts := time.Date(2024, 6, 15, tt.hour, 30, 0, 0, time.UTC)
		if got := GetTimeOfDay(ts); got != tt.want {
			t.Errorf("GetTimeOfDay(hour=%d) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestGetMoonPhase_KnownDates(t *testing.T) {
	// Reference new moon itself.
	if got := GetMoonPhase(time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)); got != MoonNew {
		t.Errorf("reference date = %s, want %s", got, MoonNew)
	}
	// Roughly half a cycle later is full.
	full := time.Date(2000, 1, 22, 0, 0, 0, 0, time.UTC)
	if got := GetMoonPhase(full); got != MoonFull {
		t.Errorf("half cycle = %s, want %s", got, MoonFull)
	}
}

func TestMoonIlluminationRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 60; d++ {
		pct := MoonIllumination(start.AddDate(0, 0, d))
		if pct < 0 || pct > 100 {
			t.Fatalf("day %d: illumination %d out of range", d, pct)
		}
	}
	// New moon is dark, full moon is bright.
	if pct := MoonIllumination(time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)); pct > 5 {
		t.Errorf("new moon illumination = %d, want near 0", pct)
	}
	if pct := MoonIllumination(time.Date(2000, 1, 22, 0, 0, 0, 0, time.UTC)); pct < 95 {
		t.Errorf("full moon illumination = %d, want near 100", pct)
	}
}

func TestMoonEmojiAndNameCoverAllPhases(t *testing.T) {
	phases := []MoonPhase{
		MoonNew, MoonWaxingCrescent, MoonFirstQuarter, MoonWaxingGibbous,
		MoonFull, MoonWaningGibbous, MoonLastQuarter, MoonWaningCrescent,
	}
	seen := map[string]bool{}
	for _, p := range phases {
		emoji := MoonEmoji(p)
		if emoji == "🌙" {
			t.Errorf("phase %s fell through to the fallback emoji", p)
		}
		if seen[emoji] {
			t.Errorf("duplicate emoji %s for phase %s", emoji, p)
		}
		seen[emoji] = true
		if MoonName(p) == "Moon" {
			t.Errorf("phase %s fell through to the fallback name", p)
		}
	}
}

func TestBuildBannerPrompt(t *testing.T) {
	day := BuildBannerPrompt(TierExcellent, TimeDay, MoonFull)
	if day == "" {
		t.Fatal("empty prompt")
	}
	// Moon only features after dark.
	night := BuildBannerPrompt(TierPoor, TimeNight, MoonFull)
	if !containsMoon(night) {
		t.Error("night prompt should mention the moon")
	}
	if containsMoon(day) {
		t.Error("day prompt should not mention the moon")
	}
}

func containsMoon(s string) bool {
	for i := 0; i+4 <= len(s); i++ {
		if s[i:i+4] == "moon" {
			return true
		}
	}
	return false
}
