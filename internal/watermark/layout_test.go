package watermark

import (
	"image"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestComputeGeometryScenario800x600(t *testing.T) {
	geom := ComputeGeometry(800, 600, DefaultOptions())

	if !almostEqual(geom.Scale.X, 36) || !almostEqual(geom.Scale.Y, 60) {
		t.Errorf("scale = (%v, %v), want (36, 60)", geom.Scale.X, geom.Scale.Y)
	}
	if !almostEqual(geom.Spacing.X, 39.6) || !almostEqual(geom.Spacing.Y, 24) {
		t.Errorf("spacing = (%v, %v), want (39.6, 24)", geom.Spacing.X, geom.Spacing.Y)
	}
	if geom.Cols != 21 {
		t.Errorf("cols = %d, want 21", geom.Cols)
	}
	if geom.Rows != 25 {
		t.Errorf("rows = %d, want 25", geom.Rows)
	}
	if want := (image.Point{X: 2, Y: 4}); geom.ShadowOffset != want {
		t.Errorf("shadow offset = %v, want %v", geom.ShadowOffset, want)
	}
	if !almostEqual(geom.Offset.X, -19.8) || !almostEqual(geom.Offset.Y, -24) {
		t.Errorf("offset = (%v, %v), want (-19.8, -24)", geom.Offset.X, geom.Offset.Y)
	}
}

func TestComputeGeometryFontHeightFloor(t *testing.T) {
	// 50px tall image: 50*0.10 = 5 is below the 10px minimum.
	geom := ComputeGeometry(100, 50, DefaultOptions())

	if !almostEqual(geom.Scale.Y, 10) {
		t.Errorf("scale.Y = %v, want 10 (font height minimum)", geom.Scale.Y)
	}
	if !almostEqual(geom.Scale.X, 6) {
		t.Errorf("scale.X = %v, want 6", geom.Scale.X)
	}
}

func TestComputeGeometryGridNeverEmpty(t *testing.T) {
	dims := []struct{ w, h int }{
		{1, 1}, {1, 10000}, {10000, 1}, {2, 3}, {800, 600}, {4096, 4096},
	}

	for _, d := range dims {
		geom := ComputeGeometry(d.w, d.h, DefaultOptions())
		if geom.Cols < 1 || geom.Rows < 1 {
			t.Errorf("%dx%d: grid %dx%d, want cols/rows >= 1", d.w, d.h, geom.Cols, geom.Rows)
		}
	}
}

func TestComputeGeometry1x1(t *testing.T) {
	geom := ComputeGeometry(1, 1, DefaultOptions())

	if geom.Cols != 1 || geom.Rows != 1 {
		t.Errorf("grid = %dx%d, want 1x1", geom.Cols, geom.Rows)
	}
}

func TestComputeGeometryPathologicalSpacing(t *testing.T) {
	opts := DefaultOptions()
	opts.CharSpacingXRatio = 0
	opts.CharSpacingYRatio = -1

	geom := ComputeGeometry(800, 600, opts)

	if geom.Cols != 1 || geom.Rows != 1 {
		t.Errorf("grid = %dx%d, want 1x1 for non-positive spacing", geom.Cols, geom.Rows)
	}
}

func TestShadowOffsetRounding(t *testing.T) {
	geom := ComputeGeometry(800, 600, DefaultOptions())

	// 36*0.065 = 2.34 rounds down, 60*0.065 = 3.9 rounds up.
	if geom.ShadowOffset.X != 2 {
		t.Errorf("shadow offset x = %d, want 2", geom.ShadowOffset.X)
	}
	if geom.ShadowOffset.Y != 4 {
		t.Errorf("shadow offset y = %d, want 4", geom.ShadowOffset.Y)
	}
}
