package watermark

import "image/color"

// Options is the immutable tuning snapshot for the tiled watermark.
// Values are loaded once at process start and shared read-only.
type Options struct {
	FontHeightRatio float64
	FontHeightMin   float64
	FontWidthRatio  float64

	MarkColor   color.NRGBA
	ShadowColor color.NRGBA

	ShadowOffsetRatio  float64
	CharSpacingXRatio  float64
	CharSpacingYRatio  float64
	GlobalOffsetXRatio float64
	GlobalOffsetYRatio float64

	JPEGQuality int
}

func DefaultOptions() Options {
	return Options{
		FontHeightRatio:    0.10,
		FontHeightMin:      10,
		FontWidthRatio:     0.6,
		MarkColor:          color.NRGBA{R: 255, G: 255, B: 255, A: 46},
		ShadowColor:        color.NRGBA{R: 0, G: 0, B: 0, A: 46},
		ShadowOffsetRatio:  0.065,
		CharSpacingXRatio:  1.1,
		CharSpacingYRatio:  0.4,
		GlobalOffsetXRatio: -0.5,
		GlobalOffsetYRatio: -1.0,
		JPEGQuality:        90,
	}
}
