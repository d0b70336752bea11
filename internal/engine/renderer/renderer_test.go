package renderer

import (
	"image"
	"image/color"
	"testing"
)

func TestBottomUp(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(y), G: uint8(x), A: 255})
		}
	}

	out := bottomUp(img)
	if len(out) != 2*3*4 {
		t.Fatalf("len = %d, want %d", len(out), 2*3*4)
	}
	// First uploaded row is the image's last row
	for row := 0; row < 3; row++ {
		for x := 0; x < 2; x++ {
			o := row*8 + x*4
			if out[o] != uint8(2-row) || out[o+1] != uint8(x) {
				t.Errorf("row %d col %d = %v, want R=%d G=%d", row, x, out[o:o+4], 2-row, x)
			}
		}
	}
}

func TestBottomUpSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 2, color.NRGBA{R: 9, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	out := bottomUp(sub)
	if len(out) != 2*2*4 {
		t.Fatalf("len = %d", len(out))
	}
	// (1,2) is the sub-image's bottom-left pixel, so it leads the upload
	if out[0] != 9 {
		t.Errorf("first pixel R = %d, want 9", out[0])
	}
}

func TestAspect(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want float32
	}{
		{"landscape", 1280, 720, 1280.0 / 720.0},
		{"square", 512, 512, 1},
		{"minimized", 0, 0, 1},
		{"zero height", 800, 0, 1},
		{"negative", -4, 300, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aspect(tt.w, tt.h); got != tt.want {
				t.Errorf("aspect(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestValidSize(t *testing.T) {
	if validSize(0, 0) || validSize(640, 0) || validSize(-1, 480) {
		t.Error("non-positive sizes must be rejected")
	}
	if !validSize(1, 1) {
		t.Error("1x1 is a valid size")
	}
}
