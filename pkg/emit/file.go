package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/tools/imports"
)

// FileOption customises a FileSink.
type FileOption func(*FileSink)

// WithBaseDir roots relative unit paths at dir.
func WithBaseDir(dir string) FileOption {
	return func(s *FileSink) {
		s.baseDir = dir
	}
}

// WithFormatting toggles Go source postprocessing of *.go units.
// Enabled by default.
func WithFormatting(enabled bool) FileOption {
	return func(s *FileSink) {
		s.format = enabled
	}
}

// WithLogger injects the logger used for emitted paths.
func WithLogger(logger *slog.Logger) FileOption {
	return func(s *FileSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// FileSink writes units to disk. Parent directories are created as
// needed and the final write replaces the target atomically, so a
// failed generation never leaves a half-written file. Units ending in
// .go run through the imports formatter first.
type FileSink struct {
	baseDir string
	format  bool
	logger  *slog.Logger
}

// Ensure the implementation satisfies the interface.
var _ Sink = (*FileSink)(nil)

// NewFileSink constructs a FileSink applying any provided options.
func NewFileSink(options ...FileOption) *FileSink {
	s := &FileSink{
		format: true,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Emit writes one unit beneath the configured base directory. Absolute
// unit paths are used as given.
func (s *FileSink) Emit(ctx context.Context, unit Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(unit.Path) == "" {
		return errors.New("emit: unit path is required")
	}

	content := unit.Content
	if s.format && strings.HasSuffix(unit.Path, ".go") {
		formatted, err := imports.Process(unit.Path, content, nil)
		if err != nil {
			return fmt.Errorf("emit: format %s: %w", unit.Path, err)
		}
		content = formatted
	}

	target := unit.Path
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.baseDir, filepath.FromSlash(target))
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("emit: create %s: %w", dir, err)
		}
	}

	if err := atomic.WriteFile(target, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("emit: write %s: %w", target, err)
	}

	s.logger.Info("unit written", "path", target, "bytes", len(content))
	return nil
}
