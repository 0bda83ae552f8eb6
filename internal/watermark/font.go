package watermark

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// FontProvider owns the single parsed font shared by all compositing
// calls. The parsed *truetype.Font is immutable and safe for concurrent
// readers; the provider only takes the write lock to (re)load it.
type FontProvider struct {
	path string

	mu   sync.RWMutex
	font *truetype.Font
}

// NewFontProvider prepares a provider for the given TTF path. An empty
// path selects the embedded Go Regular font.
func NewFontProvider(path string) *FontProvider {
	return &FontProvider{path: path}
}

// Load parses the font eagerly. Called at startup so a broken font path
// fails the process instead of the first request.
func (p *FontProvider) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

// Font returns the shared font, attempting one reload under exclusive
// access if the initial load failed.
func (p *FontProvider) Font() (*truetype.Font, error) {
	p.mu.RLock()
	f := p.font
	p.mu.RUnlock()
	if f != nil {
		return f, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.font != nil {
		return p.font, nil
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.font, nil
}

func (p *FontProvider) load() error {
	data := goregular.TTF
	if p.path != "" {
		b, err := os.ReadFile(p.path)
		if err != nil {
			return fmt.Errorf("%w: read %s: %v", ErrFont, p.path, err)
		}
		data = b
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: parse: %v", ErrFont, err)
	}

	p.font = f
	return nil
}
