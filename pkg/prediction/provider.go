package prediction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-lifepath/pkg/lifepath"
	rendertemplate "github.com/goliatone/go-lifepath/pkg/render/template"
	"github.com/goliatone/go-lifepath/pkg/render/template/gotemplate"
)

// Mode selects how templates are chosen.
type Mode string

const (
	// ModeDistinct selects one narrative per life path number.
	ModeDistinct Mode = "distinct"
	// ModeClassic renders the same paragraph for every number.
	ModeClassic Mode = "classic"
)

var (
	// ErrOutOfRange is returned by Describe for numbers outside 1..9.
	ErrOutOfRange = errors.New("prediction: life path out of range")
	// ErrUnknownMode is returned for modes other than distinct or classic.
	ErrUnknownMode = errors.New("prediction: unknown mode")
)

// ParseMode maps a config value to a Mode. Empty selects ModeDistinct.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeDistinct:
		return ModeDistinct, nil
	case ModeClassic:
		return ModeClassic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

// Option configures a Provider.
type Option func(*Provider)

// WithMode selects the template mode.
func WithMode(mode Mode) Option {
	return func(p *Provider) {
		if mode != "" {
			p.mode = mode
		}
	}
}

// WithCatalog replaces the embedded catalog.
func WithCatalog(catalog Catalog) Option {
	return func(p *Provider) {
		c := catalog.clone()
		p.catalog = &c
	}
}

// WithTemplateRenderer injects the engine used to interpolate templates.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(p *Provider) {
		if renderer != nil {
			p.templates = renderer
		}
	}
}

// Provider renders prediction text. It is immutable after New and safe for
// concurrent use.
type Provider struct {
	catalog   *Catalog
	mode      Mode
	templates rendertemplate.TemplateRenderer
}

// New constructs a Provider, defaulting to the embedded catalog in
// ModeDistinct.
func New(options ...Option) (*Provider, error) {
	p := &Provider{mode: ModeDistinct}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}

	if p.catalog == nil {
		catalog, err := DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("prediction: load default catalog: %w", err)
		}
		p.catalog = &catalog
	}
	if err := p.catalog.Validate(p.mode); err != nil {
		return nil, err
	}

	if p.templates == nil {
		engine, err := gotemplate.New(gotemplate.WithStringTemplatesOnly())
		if err != nil {
			return nil, fmt.Errorf("prediction: configure template renderer: %w", err)
		}
		p.templates = engine
	}
	return p, nil
}

// Mode reports the template mode in use.
func (p *Provider) Mode() Mode {
	return p.mode
}

// Describe renders the prediction paragraph for lifePath.
func (p *Provider) Describe(lifePath int) (string, error) {
	if lifePath < lifepath.Min || lifePath > lifepath.Max {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, lifePath)
	}

	tpl := p.catalog.Classic
	if p.mode == ModeDistinct {
		tpl = p.catalog.Paths[lifePath]
	}

	out, err := p.templates.RenderString(tpl, map[string]any{"life_path": lifePath})
	if err != nil {
		return "", fmt.Errorf("prediction: render life path %d: %w", lifePath, err)
	}
	return strings.TrimSpace(out), nil
}
