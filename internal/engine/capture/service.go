package capture

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultFilename is the fixed export name; each capture overwrites it.
const DefaultFilename = "flag.png"

// Service runs the suppress, render, export, restore sequence.
type Service struct {
	Exporter Exporter
	Filename string
	log      *zap.Logger
}

// NewService creates a capture service writing through exp.
func NewService(exp Exporter, filename string, log *zap.Logger) *Service {
	if filename == "" {
		filename = DefaultFilename
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Exporter: exp, Filename: filename, log: log}
}

// Capture renders one shadow-free frame and exports it. Lighting state is
// restored on every path, including a panic in the target or exporter.
// Failures are logged and returned; they never stop the caller's loop.
func (s *Service) Capture(ctx context.Context, rc RenderContext) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("capture panicked: %v", r)
		}
		if err != nil {
			s.log.Error("capture failed", zap.Error(err))
			return
		}
		s.log.Info("frame captured", zap.String("path", path))
	}()

	snap, err := Begin(rc)
	if err != nil {
		return "", err
	}
	defer snap.Restore()

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	if err := rc.Target.RenderFrame(rc.Camera); err != nil {
		return "", fmt.Errorf("render frame: %w", err)
	}
	img, err := rc.Target.ReadFrame()
	if err != nil {
		return "", fmt.Errorf("read frame: %w", err)
	}
	path, err = s.Exporter.Export(img, s.Filename)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}
