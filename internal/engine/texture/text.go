package texture

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
)

// TextOptions controls the procedural text texture.
type TextOptions struct {
	Width      int
	Height     int
	Background string  // Hex color
	Foreground string  // Hex color
	FontSize   float64 // Pixels
}

// DefaultTextOptions returns the reference 1024x512 green banner style.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Width:      1024,
		Height:     512,
		Background: "#00ff00",
		Foreground: "#222222",
		FontSize:   80,
	}
}

var (
	boldOnce   sync.Once
	boldSource *text.FontSource
	boldErr    error
)

func boldFont() (*text.FontSource, error) {
	boldOnce.Do(func() {
		boldSource, boldErr = text.NewFontSource(gobold.TTF)
	})
	return boldSource, boldErr
}

// GenerateText rasterizes s centered on a solid background.
func GenerateText(s string, opts TextOptions) (*image.NRGBA, error) {
	if s == "" {
		return nil, fmt.Errorf("generate text: %w", ErrNoSource)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("generate text: invalid size %dx%d", opts.Width, opts.Height)
	}

	src, err := boldFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(opts.Background))
	dc.SetFont(src.Face(opts.FontSize))
	dc.SetHexColor(opts.Foreground)
	dc.DrawStringAnchored(s, float64(opts.Width)/2, float64(opts.Height)/2, 0.5, 0.5)

	return toNRGBA(dc.Image()), nil
}
