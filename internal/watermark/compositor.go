package watermark

import (
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
)

// Composite tiles text across img in a brick pattern: odd rows are
// staggered by half the horizontal spacing and the character selection
// index combines row and column so the sequence shifts diagonally
// instead of repeating in straight vertical columns. Each tile draws
// the shadow pass first, then the foreground on top of it. The raster
// is mutated in place.
func Composite(img *image.RGBA, text []rune, f *truetype.Font, geom TileGeometry, opts Options) error {
	if len(text) == 0 {
		return nil
	}

	renderer := newGlyphRenderer(f, geom.Scale)

	for row := 0; row < geom.Rows; row++ {
		for col := 0; col < geom.Cols; col++ {
			anchor := tileAnchor(geom, row, col)
			x, y := int(anchor.X), int(anchor.Y)

			mask, err := renderer.mask(tileRune(text, row, col))
			if err != nil {
				return err
			}

			blendMask(img, mask, image.Pt(x+geom.ShadowOffset.X, y+geom.ShadowOffset.Y), opts.ShadowColor)
			blendMask(img, mask, image.Pt(x, y), opts.MarkColor)
		}
	}

	return nil
}

// tileAnchor is the top-left corner of one tile. Odd rows are shifted
// right by half the horizontal spacing.
func tileAnchor(geom TileGeometry, row, col int) Vec {
	stagger := 0.0
	if row%2 == 1 {
		stagger = geom.Spacing.X / 2
	}
	return Vec{
		X: geom.Offset.X + stagger + float64(col)*geom.Spacing.X,
		Y: geom.Offset.Y + float64(row)*geom.Spacing.Y,
	}
}

// tileRune selects the character for one tile. Combining row and column
// shifts the sequence diagonally across rows.
func tileRune(text []rune, row, col int) rune {
	return text[(row+col)%len(text)]
}

// blendMask composites col onto dst through the glyph coverage mask
// anchored at the given top-left point, using the "over" operator
// out = fg*a + bg*(1-a) with round-to-nearest channels. The output has
// no transparency, so the destination alpha is forced to opaque.
func blendMask(dst *image.RGBA, mask *image.Alpha, at image.Point, col color.NRGBA) {
	bounds := dst.Bounds()
	mb := mask.Bounds()

	// Whole tile outside the raster.
	if at.X >= bounds.Max.X || at.Y >= bounds.Max.Y ||
		at.X+mb.Dx() <= bounds.Min.X || at.Y+mb.Dy() <= bounds.Min.Y {
		return
	}

	for my := mb.Min.Y; my < mb.Max.Y; my++ {
		py := at.Y + my - mb.Min.Y
		if py < bounds.Min.Y || py >= bounds.Max.Y {
			continue
		}
		for mx := mb.Min.X; mx < mb.Max.X; mx++ {
			px := at.X + mx - mb.Min.X
			if px < bounds.Min.X || px >= bounds.Max.X {
				continue
			}

			cov := mask.AlphaAt(mx, my).A
			if cov == 0 {
				continue
			}

			// Effective alpha of the drawn pixel: coverage
			// weighted by the configured color alpha, in
			// 0..65025 fixed point.
			a := uint32(cov) * uint32(col.A)

			i := dst.PixOffset(px, py)
			dst.Pix[i+0] = blendChannel(col.R, dst.Pix[i+0], a)
			dst.Pix[i+1] = blendChannel(col.G, dst.Pix[i+1], a)
			dst.Pix[i+2] = blendChannel(col.B, dst.Pix[i+2], a)
			dst.Pix[i+3] = 0xff
		}
	}
}

const alphaMax = 255 * 255

func blendChannel(fg, bg uint8, a uint32) uint8 {
	v := uint32(fg)*a + uint32(bg)*(alphaMax-a)
	return uint8((v + alphaMax/2) / alphaMax)
}
