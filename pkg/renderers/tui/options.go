package tui

import (
	"time"

	"github.com/goliatone/go-lifepath/pkg/export"
	"github.com/goliatone/go-lifepath/pkg/formschema"
	"github.com/goliatone/go-lifepath/pkg/widget"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithDescriber sets the prediction text source.
func WithDescriber(d widget.Describer) Option {
	return func(r *Renderer) {
		if d != nil {
			r.describe = d
		}
	}
}

// WithClipboard replaces the system clipboard used by the Copy action.
func WithClipboard(cb export.Clipboard) Option {
	return func(r *Renderer) {
		r.clipboard = cb
	}
}

// WithDownloadDir sets where the Download action writes prediction.txt.
func WithDownloadDir(dir string) Option {
	return func(r *Renderer) {
		r.downloadDir = dir
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Renderer) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithForm overrides the field labels and help text shown in prompts.
func WithForm(form formschema.Form) Option {
	return func(r *Renderer) {
		r.form = &form
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
