package imagegen

import (
	"bytes"
	"image/png"
	"testing"
)

func TestBadgeProducesPNG(t *testing.T) {
	data, err := Badge(78, 64)
	if err != nil {
		t.Fatalf("Badge: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("badge is not a valid PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("badge dimensions = %dx%d, want 64x64", b.Dx(), b.Dy())
	}
}

func TestBadgeClampsScore(t *testing.T) {
	for _, pct := range []int{-10, 0, 100, 250} {
		if _, err := Badge(pct, 32); err != nil {
			t.Errorf("Badge(%d) error: %v", pct, err)
		}
	}
}

func TestBadgeRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, -1, 4096} {
		if _, err := Badge(50, size); err == nil {
			t.Errorf("Badge size %d should be rejected", size)
		}
	}
}
