package classify

import "fmt"

// BannerKey names one banner scene: score tier plus time of day. Used as
// the image cache key, so two cards with the same conditions share a
// banner.
func BannerKey(tier Tier, tod TimeOfDay) string {
	return string(tier) + "_" + string(tod)
}

var tierScenes = map[Tier]string{
	TierExcellent: "calm glassy water, gentle swell, fish rising near the surface, ideal fishing weather",
	TierGood:      "light chop on the water, a steady breeze, workable fishing conditions",
	TierPoor:      "rough grey water, strong wind whipping spray off the waves, difficult fishing conditions",
}

var todScenes = map[TimeOfDay]string{
	TimeDawn:  "at dawn with soft golden light breaking over the horizon",
	TimeDay:   "under a bright midday sky",
	TimeDusk:  "at dusk with warm orange light fading over the water",
	TimeNight: "at night under a dark sky",
}

var moonScenes = map[MoonPhase]string{
	MoonNew:            "a moonless sky",
	MoonWaxingCrescent: "a thin waxing crescent moon",
	MoonFirstQuarter:   "a half moon",
	MoonWaxingGibbous:  "a bright waxing gibbous moon",
	MoonFull:           "a full moon casting light across the water",
	MoonWaningGibbous:  "a bright waning gibbous moon",
	MoonLastQuarter:    "a half moon",
	MoonWaningCrescent: "a thin waning crescent moon",
}

// BuildBannerPrompt composes the image-generation prompt for a card banner.
// The moon only features in night and dusk scenes.
func BuildBannerPrompt(tier Tier, tod TimeOfDay, phase MoonPhase) string {
	scene := tierScenes[tier]
	light := todScenes[tod]

	prompt := fmt.Sprintf(
		"A wide photorealistic coastal fishing scene: %s, %s. A lone angler visible in silhouette on the shore. No text, no watermarks.",
		scene, light,
	)
	if tod == TimeNight || tod == TimeDusk {
		prompt += " The sky shows " + moonScenes[phase] + "."
	}
	return prompt
}
