package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// surfaceTexture mirrors the flag material's image on the GPU. It is
// re-uploaded only when the controller reports a new surface version.
type surfaceTexture struct {
	id      uint32
	version uint64
	loaded  bool
}

// sync uploads img when version differs from what is on the GPU. A nil
// image releases the texture.
func (t *surfaceTexture) sync(img *image.NRGBA, version uint64) {
	if t.loaded && t.version == version {
		return
	}
	t.version = version
	t.loaded = true

	if img == nil {
		t.release()
		return
	}
	if t.id == 0 {
		gl.GenTextures(1, &t.id)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pixels := bottomUp(img)

	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (t *surfaceTexture) bound() bool {
	return t.id != 0
}

func (t *surfaceTexture) release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// bottomUp returns the image rows in OpenGL order so the image's top row
// lands at v = 1, the top edge of the flag.
func bottomUp(img *image.NRGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rowSize := w * 4
	out := make([]byte, rowSize*h)
	for y := 0; y < h; y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+h-1-y)
		copy(out[y*rowSize:(y+1)*rowSize], img.Pix[src:src+rowSize])
	}
	return out
}
