// Package texture provides image decoding, procedural text textures and
// asynchronous surface loading for the flag material.
package texture

import (
	"errors"
	"image"
)

// ErrNoSource is returned when there is nothing to load or draw.
var ErrNoSource = errors.New("no surface source")

// Kind describes where a surface came from.
type Kind int

const (
	KindNone      Kind = iota // Explicitly untextured
	KindGenerated             // Rasterized overlay text
	KindImage                 // Decoded external image
)

func (k Kind) String() string {
	switch k {
	case KindGenerated:
		return "generated"
	case KindImage:
		return "image"
	default:
		return "none"
	}
}

// ColorSpace tags how pixel values should be interpreted on upload.
type ColorSpace int

const (
	Linear ColorSpace = iota
	SRGB
)

// Surface is a raster image bound to the flag material.
type Surface struct {
	Kind       Kind
	Image      *image.NRGBA
	Source     string // Path, URL or overlay text it was built from
	ColorSpace ColorSpace
}

// None returns the explicit "no texture" surface.
func None() *Surface {
	return &Surface{Kind: KindNone}
}

// HasImage reports whether the surface carries pixels.
func (s *Surface) HasImage() bool {
	return s != nil && s.Kind != KindNone && s.Image != nil
}

// Size returns the image dimensions, or 0,0 without an image.
func (s *Surface) Size() (int, int) {
	if !s.HasImage() {
		return 0, 0
	}
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}
