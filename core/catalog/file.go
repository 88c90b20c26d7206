package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileCatalog loads fault templates from a YAML file. It supports random and
// sequential selection and can be reloaded at runtime without dropping the
// sequential cursor past the new catalog bounds.
type FileCatalog struct {
	path      string
	selection string
	logger    *slog.Logger

	mu        sync.RWMutex
	templates []Template
	byID      map[string]int
	cursor    int
}

// FileOption configures a FileCatalog.
type FileOption func(*FileCatalog)

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(log *slog.Logger) FileOption {
	return func(c *FileCatalog) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewFileCatalog loads the catalog from the given path. The selection policy
// must be SelectionRandom or SelectionSequential.
func NewFileCatalog(path, selection string, opts ...FileOption) (*FileCatalog, error) {
	if selection != SelectionRandom && selection != SelectionSequential {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSelection, selection)
	}

	c := &FileCatalog{
		path:      path,
		selection: selection,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFileCatalogFromConfig creates a FileCatalog from configuration.
func NewFileCatalogFromConfig(cfg Config, opts ...FileOption) (*FileCatalog, error) {
	return NewFileCatalog(cfg.Path, cfg.Selection, opts...)
}

// catalogFile is the on-disk document shape.
type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// Reload re-reads the catalog file. On failure the previously loaded templates
// stay in effect.
func (c *FileCatalog) Reload() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return errors.Join(ErrLoadFailed, err)
	}

	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return errors.Join(ErrLoadFailed, err)
	}

	byID := make(map[string]int, len(doc.Templates))
	for i, tpl := range doc.Templates {
		if tpl.ID == "" || tpl.ChaosCmd == "" || tpl.CheckCmd == "" {
			return fmt.Errorf("%w: entry %d requires id, chaos_cmd and check_cmd", ErrInvalidTemplate, i)
		}
		if _, exists := byID[tpl.ID]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateTemplate, tpl.ID)
		}
		byID[tpl.ID] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.templates = doc.Templates
	c.byID = byID
	if c.cursor >= len(c.templates) {
		c.cursor = 0
	}

	c.logger.Info("template catalog loaded",
		slog.String("path", c.path),
		slog.Int("templates", len(c.templates)))

	return nil
}

// Select implements Catalog.
func (c *FileCatalog) Select() (Template, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.templates) == 0 {
		return Template{}, false
	}

	switch c.selection {
	case SelectionSequential:
		tpl := c.templates[c.cursor]
		c.cursor = (c.cursor + 1) % len(c.templates)
		return tpl, true
	default:
		return c.templates[rand.IntN(len(c.templates))], true
	}
}

// Get implements Catalog.
func (c *FileCatalog) Get(id string) (Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Len implements Catalog.
func (c *FileCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}
