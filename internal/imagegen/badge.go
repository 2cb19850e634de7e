package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/Daz-Mac/fishing-assistant/internal/classify"
)

// Badge renders a circular score gauge as a PNG: a ring filled
// proportionally to the score, in the score tier's color. Drawn at 4x and
// downscaled with Catmull-Rom for smooth edges.
func Badge(scorePct, size int) ([]byte, error) {
	if size <= 0 || size > 1024 {
		return nil, fmt.Errorf("badge size %d out of range", size)
	}
	if scorePct < 0 {
		scorePct = 0
	}
	if scorePct > 100 {
		scorePct = 100
	}

	const oversample = 4
	big := size * oversample
	img := image.NewRGBA(image.Rect(0, 0, big, big))

	center := float64(big) / 2
	outer := center * 0.95
	inner := center * 0.70
	fillAngle := 2 * math.Pi * float64(scorePct) / 100

	tierColor := parseHexColor(classify.ScoreTier(scorePct).Color())
	track := color.RGBA{R: 55, G: 63, B: 72, A: 255}
	face := color.RGBA{R: 30, G: 36, B: 43, A: 255}

	for y := 0; y < big; y++ {
		for x := 0; x < big; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			r := math.Hypot(dx, dy)
			if r > outer {
				continue
			}
			if r < inner {
				img.SetRGBA(x, y, face)
				continue
			}
			// Angle measured clockwise from 12 o'clock.
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			if angle <= fillAngle {
				img.SetRGBA(x, y, tierColor)
			} else {
				img.SetRGBA(x, y, track)
			}
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode badge: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHexColor(s string) color.RGBA {
	c := color.RGBA{A: 255}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B)
	return c
}
