package texture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxDownload caps remote image bodies.
const maxDownload = 64 << 20

// Request selects the flag surface. It is comparable and used as a cache key.
type Request struct {
	TextureSource string
	OverlayText   string
}

// Loader resolves requests into surfaces.
type Loader struct {
	AssetsDir string
	Text      TextOptions
	MaxSize   int

	client *http.Client
	log    *zap.Logger
}

// NewLoader creates a loader rooted at assetsDir.
func NewLoader(assetsDir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		AssetsDir: assetsDir,
		Text:      DefaultTextOptions(),
		MaxSize:   MaxSize,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// Resolve picks the surface for req. Overlay text wins over the texture
// source; an empty source resolves immediately to None. Anything else is
// loaded in the background.
func (l *Loader) Resolve(ctx context.Context, req Request) *Pending {
	if req.OverlayText != "" {
		img, err := GenerateText(req.OverlayText, l.Text)
		if err != nil {
			return Resolved(nil, err)
		}
		return Resolved(&Surface{
			Kind:       KindGenerated,
			Image:      img,
			Source:     req.OverlayText,
			ColorSpace: SRGB,
		}, nil)
	}

	if req.TextureSource == "" {
		return Resolved(None(), nil)
	}

	source := req.TextureSource
	return Async(ctx, func(ctx context.Context) (*Surface, error) {
		return l.Load(ctx, source)
	})
}

// Load fetches and decodes source synchronously.
func (l *Loader) Load(ctx context.Context, source string) (*Surface, error) {
	if source == "" {
		return nil, ErrNoSource
	}

	start := time.Now()
	data, err := l.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) && strings.EqualFold(filepath.Ext(source), ".tga") {
		img, format, err = decodeTGAFallback(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	limit := l.MaxSize
	if limit <= 0 {
		limit = MaxSize
	}
	nrgba := fitMaxSize(toNRGBA(img), limit)

	l.log.Debug("surface loaded",
		zap.String("source", source),
		zap.String("format", format),
		zap.Int("width", nrgba.Bounds().Dx()),
		zap.Int("height", nrgba.Bounds().Dy()),
		zap.Duration("took", time.Since(start)))

	return &Surface{
		Kind:       KindImage,
		Image:      nrgba,
		Source:     source,
		ColorSpace: SRGB,
	}, nil
}

func decodeTGAFallback(data []byte) (image.Image, string, error) {
	img, err := DecodeTGA(data)
	if err != nil {
		return nil, "", err
	}
	return img, "tga", nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.download(ctx, source)
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(filepath.FromSlash(u.Path))
	default:
		return os.ReadFile(l.localPath(source))
	}
}

// localPath maps a source to disk. A leading slash addresses the assets
// root, falling back to the absolute path when nothing is there.
func (l *Loader) localPath(source string) string {
	if strings.HasPrefix(source, "/") {
		rooted := filepath.Join(l.AssetsDir, filepath.FromSlash(strings.TrimPrefix(source, "/")))
		if _, err := os.Stat(rooted); err == nil {
			return rooted
		}
		return filepath.FromSlash(source)
	}
	if filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(l.AssetsDir, filepath.FromSlash(source))
}

func (l *Loader) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "windflag")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxDownload))
}
