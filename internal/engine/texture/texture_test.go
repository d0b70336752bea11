package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isDark(c color.NRGBA) bool {
	return c.R < 100 && c.G < 100 && c.B < 100
}

func TestGenerateTextDefaults(t *testing.T) {
	img, err := GenerateText("TEST", DefaultTextOptions())
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}

	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 1024 || h != 512 {
		t.Fatalf("size = %dx%d, want 1024x512", w, h)
	}

	green := color.NRGBA{0, 255, 0, 255}
	for _, p := range []image.Point{{0, 0}, {1023, 0}, {0, 511}, {1023, 511}, {100, 256}} {
		if c := img.NRGBAAt(p.X, p.Y); c != green {
			t.Errorf("background at %v = %v, want %v", p, c, green)
		}
	}

	// Text pixels must exist and be centered on the canvas
	var sumX, sumY, n int
	for y := range 512 {
		for x := range 1024 {
			if isDark(img.NRGBAAt(x, y)) {
				sumX += x
				sumY += y
				n++
			}
		}
	}
	if n == 0 {
		t.Fatal("no text pixels drawn")
	}
	cx, cy := sumX/n, sumY/n
	if cx < 512-48 || cx > 512+48 {
		t.Errorf("text centroid x = %d, want near 512", cx)
	}
	if cy < 256-64 || cy > 256+64 {
		t.Errorf("text centroid y = %d, want near 256", cy)
	}
}

func TestGenerateTextEmpty(t *testing.T) {
	if _, err := GenerateText("", DefaultTextOptions()); !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}
}

func tgaHeaderBytes(imageType byte, w, h, bpp int, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12] = byte(w)
	hdr[13] = byte(w >> 8)
	hdr[14] = byte(h)
	hdr[15] = byte(h >> 8)
	hdr[16] = byte(bpp)
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, top-to-bottom, BGR: red then blue
	data := append(tgaHeaderBytes(TGATypeUncompressed, 2, 1, 24, 0x20), 0, 0, 255, 255, 0, 0)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel 0 = %v, want red", c)
	}
	if c := img.NRGBAAt(1, 0); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel 1 = %v, want blue", c)
	}
}

func TestDecodeTGARLEBottomUp(t *testing.T) {
	// 1x2, bottom-to-top, one RLE packet of 2 green pixels with alpha
	data := append(tgaHeaderBytes(TGATypeRLE, 1, 2, 32, 0), 0x81, 0, 255, 0, 128)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	want := color.NRGBA{0, 255, 0, 128}
	for y := range 2 {
		if c := img.NRGBAAt(0, y); c != want {
			t.Errorf("pixel (0,%d) = %v, want %v", y, c, want)
		}
	}
}

func TestDecodeTGARejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := tgaHeaderBytes(2, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"grayscale", tgaHeaderBytes(3, 1, 1, 8, 0)},
		{"16 bpp", tgaHeaderBytes(2, 1, 1, 16, 0)},
		{"truncated pixels", tgaHeaderBytes(2, 4, 4, 24, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestImageDecodeRecognizesTGA(t *testing.T) {
	data := append(tgaHeaderBytes(TGATypeUncompressed, 1, 1, 24, 0x20), 10, 20, 30)

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.Decode: %v", err)
	}
	if format != "tga" {
		t.Errorf("format = %q, want tga", format)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func waitResult(t *testing.T, p *Pending) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := p.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	return res
}

func TestResolveOverlayTextWins(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)

	p := l.Resolve(context.Background(), Request{TextureSource: "/missing.png", OverlayText: "TEST"})
	res, ok := p.Ready()
	if !ok {
		t.Fatal("generated surface should resolve immediately")
	}
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Surface.Kind != KindGenerated || res.Surface.ColorSpace != SRGB {
		t.Errorf("surface = %v/%v, want generated sRGB", res.Surface.Kind, res.Surface.ColorSpace)
	}
	if w, h := res.Surface.Size(); w != 1024 || h != 512 {
		t.Errorf("size = %dx%d, want 1024x512", w, h)
	}
}

func TestResolveEmptySourceIsNone(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)

	res, ok := l.Resolve(context.Background(), Request{}).Ready()
	if !ok {
		t.Fatal("empty source should resolve immediately")
	}
	if res.Err != nil || res.Surface.Kind != KindNone || res.Surface.HasImage() {
		t.Errorf("expected none surface, got %+v", res)
	}
}

func TestResolveAssetRootedPath(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "flag.png"), 8, 4, color.NRGBA{200, 10, 10, 255})
	l := NewLoader(dir, nil)

	res := waitResult(t, l.Resolve(context.Background(), Request{TextureSource: "/flag.png"}))
	if res.Err != nil {
		t.Fatalf("load failed: %v", res.Err)
	}
	if res.Surface.Kind != KindImage || res.Surface.ColorSpace != SRGB {
		t.Errorf("surface = %v/%v, want image sRGB", res.Surface.Kind, res.Surface.ColorSpace)
	}
	if w, h := res.Surface.Size(); w != 8 || h != 4 {
		t.Errorf("size = %dx%d, want 8x4", w, h)
	}
	if c := res.Surface.Image.NRGBAAt(3, 2); c != (color.NRGBA{200, 10, 10, 255}) {
		t.Errorf("pixel = %v", c)
	}
}

func TestResolveFileURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path, 2, 2, color.NRGBA{1, 2, 3, 255})
	l := NewLoader("", nil)

	res := waitResult(t, l.Resolve(context.Background(), Request{TextureSource: "file://" + filepath.ToSlash(path)}))
	if res.Err != nil {
		t.Fatalf("load failed: %v", res.Err)
	}
}

func TestResolveMissingFileFails(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)

	res := waitResult(t, l.Resolve(context.Background(), Request{TextureSource: "/nope.png"}))
	if res.Err == nil {
		t.Fatal("expected error for missing file")
	}
	if res.Surface != nil {
		t.Errorf("expected nil surface on failure, got %+v", res.Surface)
	}
}

func TestResolveHTTP(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flag.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	l := NewLoader("", nil)

	res := waitResult(t, l.Resolve(context.Background(), Request{TextureSource: srv.URL + "/flag.png"}))
	if res.Err != nil {
		t.Fatalf("http load failed: %v", res.Err)
	}
	if w, h := res.Surface.Size(); w != 3 || h != 3 {
		t.Errorf("size = %dx%d, want 3x3", w, h)
	}

	res = waitResult(t, l.Resolve(context.Background(), Request{TextureSource: srv.URL + "/missing.png"}))
	if res.Err == nil {
		t.Error("expected error for 404")
	}
}

func TestPendingCancel(t *testing.T) {
	release := make(chan struct{})
	p := Async(context.Background(), func(ctx context.Context) (*Surface, error) {
		<-release
		return None(), nil
	})

	if _, ok := p.Ready(); ok {
		t.Fatal("pending resolved before load finished")
	}

	p.Cancel()
	close(release)

	res := waitResult(t, p)
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", res.Err)
	}
	if res.Surface != nil {
		t.Error("cancelled load should drop its surface")
	}
}

func TestPendingWaitTimeout(t *testing.T) {
	p := Async(context.Background(), func(ctx context.Context) (*Surface, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	defer p.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

type countingResolver struct {
	calls int
}

func (r *countingResolver) Resolve(ctx context.Context, req Request) *Pending {
	r.calls++
	return Resolved(None(), nil)
}

func TestCacheOnlyResolvesOnChange(t *testing.T) {
	r := &countingResolver{}
	c := NewCache(r)
	ctx := context.Background()

	if _, changed := c.Get(ctx, Request{TextureSource: "/flag.png"}); !changed {
		t.Error("first Get should resolve")
	}
	if _, changed := c.Get(ctx, Request{TextureSource: "/flag.png"}); changed {
		t.Error("identical request should hit the cache")
	}
	if _, changed := c.Get(ctx, Request{TextureSource: "/flag.png", OverlayText: "HI"}); !changed {
		t.Error("changed text should resolve again")
	}
	if r.calls != 2 {
		t.Errorf("resolver called %d times, want 2", r.calls)
	}

	c.Reset()
	if _, changed := c.Get(ctx, Request{TextureSource: "/flag.png", OverlayText: "HI"}); !changed {
		t.Error("Get after Reset should resolve again")
	}
	if r.calls != 3 {
		t.Errorf("resolver called %d times after Reset, want 3", r.calls)
	}
}

func TestFitMaxSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	out := fitMaxSize(img, 200)
	if w, h := out.Bounds().Dx(), out.Bounds().Dy(); w != 200 || h != 50 {
		t.Errorf("fit = %dx%d, want 200x50", w, h)
	}
	if fitMaxSize(img, 1000) != img {
		t.Error("small image should be returned unchanged")
	}
}
