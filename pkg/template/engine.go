package template

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Option configures an Engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	logger    *slog.Logger
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS, typically an embedded tree.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default .tpl template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithLogger injects the logger used for template loading events.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Engine manages a named set of templates, parsing each on first use and
// caching the parsed form. The base directory takes precedence over the
// fs.FS when both are configured, so callers can shadow embedded
// defaults with files on disk.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]*Template

	baseDir string
	files   fs.FS
	tplExt  string
	logger  *slog.Logger
}

// New constructs an Engine from the provided options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("template: need to provide either base dir or fs.FS")
	}

	return &Engine{
		cache:   make(map[string]*Template),
		baseDir: cfg.baseDir,
		files:   cfg.templates,
		tplExt:  cfg.extension,
		logger:  cfg.logger,
	}, nil
}

// Template returns the parsed template for name, loading and caching it
// on first use. The configured extension is appended when name does not
// already carry it.
func (e *Engine) Template(name string) (*Template, error) {
	if e == nil {
		return nil, errors.New("template: engine is nil")
	}
	key := e.pathFor(name)

	e.mu.RLock()
	if tpl, ok := e.cache[key]; ok {
		e.mu.RUnlock()
		return tpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.cache[key]; ok {
		return tpl, nil
	}

	src, err := e.readSource(key)
	if err != nil {
		return nil, err
	}
	tpl, err := ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("template: parse %q: %w", key, err)
	}
	e.cache[key] = tpl
	e.logger.Debug("template loaded", "name", name, "path", key)
	return tpl, nil
}

// Render loads the named template and renders it with data, which may be
// a *Context, a map[string]any, or nil. The rendered text is returned
// and also copied to any provided writers.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	tpl, err := e.Template(name)
	if err != nil {
		return "", err
	}
	ctx, err := contextFrom(data)
	if err != nil {
		return "", err
	}
	rendered, err := tpl.Render(ctx)
	if err != nil {
		return "", fmt.Errorf("template: render %q: %w", name, err)
	}
	return tee(rendered, out)
}

// RenderString parses src as inline template source and renders it. The
// parsed form is not cached.
func (e *Engine) RenderString(src string, data any, out ...io.Writer) (string, error) {
	if e == nil {
		return "", errors.New("template: engine is nil")
	}
	tpl, err := ParseString(src)
	if err != nil {
		return "", err
	}
	ctx, err := contextFrom(data)
	if err != nil {
		return "", err
	}
	rendered, err := tpl.Render(ctx)
	if err != nil {
		return "", err
	}
	return tee(rendered, out)
}

// Names lists the templates visible to the engine, without extension, in
// sorted order.
func (e *Engine) Names() ([]string, error) {
	if e == nil {
		return nil, errors.New("template: engine is nil")
	}
	seen := map[string]bool{}
	collect := func(fsys fs.FS) error {
		return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, e.tplExt) {
				return nil
			}
			seen[strings.TrimSuffix(p, e.tplExt)] = true
			return nil
		})
	}
	if e.baseDir != "" {
		if err := collect(os.DirFS(e.baseDir)); err != nil {
			return nil, fmt.Errorf("template: list %q: %w", e.baseDir, err)
		}
	}
	if e.files != nil {
		if err := collect(e.files); err != nil {
			return nil, fmt.Errorf("template: list templates: %w", err)
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *Engine) pathFor(name string) string {
	if strings.HasSuffix(name, e.tplExt) {
		return name
	}
	return name + e.tplExt
}

func (e *Engine) readSource(path string) (string, error) {
	if e.baseDir != "" {
		raw, err := os.ReadFile(filepath.Join(e.baseDir, filepath.FromSlash(path)))
		if err == nil {
			return string(raw), nil
		}
		if e.files == nil {
			return "", fmt.Errorf("template: load %q: %w", path, err)
		}
	}
	raw, err := fs.ReadFile(e.files, path)
	if err != nil {
		return "", fmt.Errorf("template: load %q: %w", path, err)
	}
	return string(raw), nil
}

func tee(rendered string, out []io.Writer) (string, error) {
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// contextFrom adapts caller data into a render context.
func contextFrom(data any) (*Context, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case *Context:
		return v, nil
	case map[string]any:
		return NewContext(v), nil
	default:
		return nil, fmt.Errorf("template: unsupported context data %T", v)
	}
}
