package watermark

import (
	"image"
	"math"
)

// Vec is a 2D vector in pixel units.
type Vec struct {
	X, Y float64
}

// TileGeometry describes one watermark tiling grid. It is derived per
// image from the raster dimensions and the configured ratios.
type TileGeometry struct {
	// Scale is the glyph box size in pixels (x may differ from y).
	Scale Vec
	// ShadowOffset is the integer pixel shift of the shadow pass.
	ShadowOffset image.Point
	// Spacing is the distance between tile anchors in pixels.
	Spacing Vec
	// Cols and Rows are the tile grid dimensions, always >= 1.
	Cols, Rows int
	// Offset shifts the whole grid relative to the raster origin.
	Offset Vec
}

// ComputeGeometry derives the tiling grid for an image of the given
// dimensions. Pure arithmetic, never fails for valid inputs.
func ComputeGeometry(width, height int, opts Options) TileGeometry {
	fontPx := math.Max(float64(height)*opts.FontHeightRatio, opts.FontHeightMin)

	scale := Vec{X: fontPx * opts.FontWidthRatio, Y: fontPx}

	shadowOffset := image.Point{
		X: int(math.Round(scale.X * opts.ShadowOffsetRatio)),
		Y: int(math.Round(scale.Y * opts.ShadowOffsetRatio)),
	}

	spacing := Vec{
		X: scale.X * opts.CharSpacingXRatio,
		Y: scale.Y * opts.CharSpacingYRatio,
	}

	return TileGeometry{
		Scale:        scale,
		ShadowOffset: shadowOffset,
		Spacing:      spacing,
		Cols:         tileCount(float64(width), spacing.X),
		Rows:         tileCount(float64(height), spacing.Y),
		Offset: Vec{
			X: spacing.X * opts.GlobalOffsetXRatio,
			Y: spacing.Y * opts.GlobalOffsetYRatio,
		},
	}
}

// tileCount clamps to 1 so pathological spacing never produces an empty
// or negative grid.
func tileCount(dim, spacing float64) int {
	if spacing <= 0 {
		return 1
	}
	n := int(math.Ceil(dim / spacing))
	if n < 1 {
		return 1
	}
	return n
}
