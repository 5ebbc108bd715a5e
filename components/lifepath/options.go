package lifepath

import (
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	rendertemplate "github.com/goliatone/go-lifepath/pkg/render/template"
	"github.com/goliatone/go-lifepath/pkg/widget"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	PagePath     string
	APIPath      string
	DownloadPath string
	SchemaPath   string
	NameParam    string
	DOBParam     string
	Guard        GuardFunc

	// Describer renders prediction text. Nil selects prediction.New().
	Describer widget.Describer
	Clock     func() time.Time
	Logger    *zap.Logger

	ThemeSelector theme.ThemeSelector
	ThemeName     string
	ThemeVariant  string

	// ThemeManifests are registered next to the built-in theme when no
	// ThemeSelector is set.
	ThemeManifests []*theme.Manifest

	// Templates overrides the engine rendering templates/page.tmpl.
	Templates rendertemplate.TemplateRenderer
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		PagePath:     "/",
		APIPath:      "/api/lifepath",
		DownloadPath: "/download",
		SchemaPath:   "/schema",
		NameParam:    "name",
		DOBParam:     "dob",
		ThemeName:    defaultThemeName,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.PagePath == "" {
		opts.PagePath = defaults.PagePath
	}
	if opts.APIPath == "" {
		opts.APIPath = defaults.APIPath
	}
	if opts.DownloadPath == "" {
		opts.DownloadPath = defaults.DownloadPath
	}
	if opts.SchemaPath == "" {
		opts.SchemaPath = defaults.SchemaPath
	}
	if opts.NameParam == "" {
		opts.NameParam = defaults.NameParam
	}
	if opts.DOBParam == "" {
		opts.DOBParam = defaults.DOBParam
	}
	if opts.ThemeName == "" {
		opts.ThemeName = defaults.ThemeName
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithPagePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PagePath = path
	}
}

func WithAPIPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.APIPath = path
	}
}

func WithDownloadPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DownloadPath = path
	}
}

func WithSchemaPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SchemaPath = path
	}
}

func WithParams(nameParam, dobParam string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.NameParam = nameParam
		o.DOBParam = dobParam
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithDescriber(d widget.Describer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Describer = d
	}
}

func WithClock(clock func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Clock = clock
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithThemeSelector resolves page tokens through a go-theme selector.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeSelector = selector
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

// WithTheme selects a theme and variant from the configured selector, or the
// built-in theme when none is set.
func WithTheme(name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

// WithThemeManifests makes more themes selectable by name.
func WithThemeManifests(manifests ...*theme.Manifest) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeManifests = append(o.ThemeManifests, manifests...)
	}
}

func WithThemeVariant(variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeVariant = variant
	}
}

func WithTemplates(renderer rendertemplate.TemplateRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Templates = renderer
	}
}
