package watermark

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// glyphRenderer rasterizes single runes at a fixed scale into alpha
// coverage masks. One renderer serves one compositing pass, so the
// cache is keyed by rune only: the scale never changes within an image.
// Cached masks are the same objects a fresh rasterization would yield.
type glyphRenderer struct {
	ctx    *freetype.Context
	scale  Vec
	emW    int
	emH    int
	ascent int
	cache  map[rune]*image.Alpha
}

func newGlyphRenderer(f *truetype.Font, scale Vec) *glyphRenderer {
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(scale.Y)
	c.SetHinting(font.HintingNone)

	// Rough em-box estimates, generous enough for ascenders and
	// descenders of common Latin glyphs.
	side := int(math.Ceil(scale.Y * 1.3))

	return &glyphRenderer{
		ctx:    c,
		scale:  scale,
		emW:    side,
		emH:    side,
		ascent: int(math.Ceil(scale.Y * 0.8)),
		cache:  make(map[rune]*image.Alpha),
	}
}

// mask returns the coverage patch for ch, stretched horizontally when
// the x scale differs from the y scale.
func (g *glyphRenderer) mask(ch rune) (*image.Alpha, error) {
	if m, ok := g.cache[ch]; ok {
		return m, nil
	}

	patch := image.NewAlpha(image.Rect(0, 0, g.emW, g.emH))
	g.ctx.SetClip(patch.Bounds())
	g.ctx.SetDst(patch)
	g.ctx.SetSrc(image.NewUniform(color.Alpha{A: 255}))

	if _, err := g.ctx.DrawString(string(ch), freetype.Pt(0, g.ascent)); err != nil {
		return nil, fmt.Errorf("%w: draw %q: %v", ErrFont, ch, err)
	}

	m := patch
	if g.scale.X != g.scale.Y && g.scale.Y > 0 {
		w := int(math.Ceil(float64(g.emW) * g.scale.X / g.scale.Y))
		if w < 1 {
			w = 1
		}
		squeezed := image.NewAlpha(image.Rect(0, 0, w, g.emH))
		xdraw.BiLinear.Scale(squeezed, squeezed.Bounds(), patch, patch.Bounds(), xdraw.Src, nil)
		m = squeezed
	}

	g.cache[ch] = m
	return m, nil
}
