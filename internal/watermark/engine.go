// Package watermark implements the tiled text watermark engine:
// tiling geometry, glyph rasterization and alpha compositing onto a
// decoded raster, re-encoded as JPEG.
package watermark

// Engine binds the shared font and the configured tuning ratios into
// one stateless processing entry point. Each Apply call works on its
// own raster; concurrent calls share only the immutable font.
type Engine struct {
	fonts *FontProvider
	opts  Options
}

func NewEngine(fonts *FontProvider, opts Options) *Engine {
	return &Engine{fonts: fonts, opts: opts}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Apply overlays text onto the encoded image and returns JPEG bytes.
// Empty text is a no-op: the input bytes are returned unchanged.
func (e *Engine) Apply(data []byte, text string) ([]byte, error) {
	if text == "" {
		return data, nil
	}

	f, err := e.fonts.Font()
	if err != nil {
		return nil, err
	}

	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	geom := ComputeGeometry(bounds.Dx(), bounds.Dy(), e.opts)

	if err := Composite(img, []rune(text), f, geom, e.opts); err != nil {
		return nil, err
	}

	return EncodeJPEG(img, e.opts.JPEGQuality)
}
