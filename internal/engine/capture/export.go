package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
)

// ErrCancelled is returned when the user dismisses the save dialog.
var ErrCancelled = errors.New("capture: save cancelled")

// Exporter writes a captured image and returns where it went.
type Exporter interface {
	Export(img image.Image, filename string) (string, error)
}

// PNGExporter writes PNG files into Dir, overwriting any existing file.
type PNGExporter struct {
	Dir string
}

// Export implements Exporter.
func (e PNGExporter) Export(img image.Image, filename string) (string, error) {
	if e.Dir != "" {
		if err := os.MkdirAll(e.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
		filename = filepath.Join(e.Dir, filename)
	}
	return filename, writePNG(filename, img)
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}

// DialogExporter asks for the destination with a native save dialog
// pre-filled with the capture filename. If the dialog itself fails the
// image goes to Fallback instead.
type DialogExporter struct {
	Fallback PNGExporter
	Title    string
}

// Export implements Exporter.
func (e DialogExporter) Export(img image.Image, filename string) (string, error) {
	title := e.Title
	if title == "" {
		title = "Save Flag Image"
	}

	builder := dialog.File().
		Filter("PNG Image", "png").
		Title(title).
		SetStartFile(filename)
	if e.Fallback.Dir != "" {
		builder = builder.SetStartDir(e.Fallback.Dir)
	}

	path, err := builder.Save()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrCancelled
		}
		return e.Fallback.Export(img, filename)
	}
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	return path, writePNG(path, img)
}
