package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-lifepath/pkg/export"
	"github.com/goliatone/go-lifepath/pkg/formschema"
	"github.com/goliatone/go-lifepath/pkg/lifepath"
	"github.com/goliatone/go-lifepath/pkg/widget"
)

// Actions offered once a prediction is shown, in menu order.
const (
	ActionCopy     = "Copy"
	ActionDownload = "Download"
	ActionDone     = "Done"
)

var actions = []string{ActionCopy, ActionDownload, ActionDone}

// Renderer runs the prediction form as a sequence of terminal prompts.
type Renderer struct {
	driver      PromptDriver
	describe    widget.Describer
	clipboard   export.Clipboard
	downloadDir string
	clock       func() time.Time
	form        *formschema.Form
	theme       Theme
}

// New constructs a TUI renderer with defaults (survey driver, system
// clipboard, working directory downloads). A describer is required.
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:    driver,
		clipboard: export.SystemClipboard{},
		clock:     time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.describe == nil {
		return nil, errors.New("tui: describer is required")
	}
	return r, nil
}

// Run prompts for a name and date of birth, prints the prediction and then
// serves the Copy/Download/Done menu. After Done the user may enter another
// date; the name is kept. Run returns the last view shown.
func (r *Renderer) Run(ctx context.Context) (widget.View, error) {
	if ctx == nil {
		return widget.View{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return widget.View{}, err
	}
	if r.driver == nil {
		return widget.View{}, ErrNoDriver
	}

	form, err := r.resolveForm(ctx)
	if err != nil {
		return widget.View{}, err
	}
	nameField, _ := form.Field("name")
	dobField, _ := form.Field("dob")

	session := widget.NewSession(r.describe, r.clock)

	name, err := r.driver.Input(ctx, InputConfig{
		Message:     labelOr(nameField.Label, "Your name (optional)"),
		Help:        nameField.Description,
		Placeholder: nameField.Placeholder,
	})
	if err != nil {
		return widget.View{}, err
	}
	session.SetName(name)

	for {
		dob, err := r.promptDOB(ctx, dobField)
		if err != nil {
			return session.View(), err
		}
		view, err := session.SetDOB(dob)
		if err != nil {
			return view, fmt.Errorf("tui: describe: %w", err)
		}
		if err := r.show(ctx, view); err != nil {
			return view, err
		}
		if err := r.actions(ctx, view); err != nil {
			return view, err
		}

		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Check another date?"})
		if err != nil {
			return view, err
		}
		if !again {
			return view, nil
		}
	}
}

func (r *Renderer) resolveForm(ctx context.Context) (formschema.Form, error) {
	if r.form != nil {
		return *r.form, nil
	}
	form, err := formschema.Default(ctx)
	if err != nil {
		return formschema.Form{}, fmt.Errorf("tui: load form: %w", err)
	}
	return form, nil
}

// promptDOB re-asks until the answer reduces to a life path. Drivers that
// enforce the validator themselves never reach the retry message.
func (r *Renderer) promptDOB(ctx context.Context, field formschema.Field) (string, error) {
	for {
		dob, err := r.driver.Input(ctx, InputConfig{
			Message:     labelOr(field.Label, "Date of birth"),
			Help:        field.Description,
			Placeholder: field.Placeholder,
			Validator:   lifepath.Validate,
		})
		if err != nil {
			return "", err
		}
		if lifepath.Valid(dob) {
			return dob, nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+widget.NotReadyMessage); err != nil {
			return "", err
		}
	}
}

func (r *Renderer) show(ctx context.Context, view widget.View) error {
	lines := []string{
		fmt.Sprintf("Life path number: %d", view.LifePath),
		"Generated at: " + view.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		"",
	}
	if view.Greeting != "" {
		lines = append(lines, view.Greeting+" "+view.Message)
	} else {
		lines = append(lines, view.Message)
	}
	for _, line := range lines {
		if line != "" {
			line = r.theme.InfoPrefix + line
		}
		if err := r.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) actions(ctx context.Context, view widget.View) error {
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      "What next?",
			Options:      actions,
			DefaultIndex: len(actions) - 1,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			return fmt.Errorf("tui: unknown action index %d", idx)
		}

		var note string
		switch actions[idx] {
		case ActionCopy:
			// A failed copy is reported, not returned.
			note, _ = export.Copy(r.clipboard, view.Name, view.Message)
		case ActionDownload:
			path, err := export.WriteFile(r.downloadDir, view.Message)
			if err != nil {
				note = r.theme.ErrorPrefix + "Download failed: " + err.Error()
			} else {
				note = "Saved " + path
			}
		case ActionDone:
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+note); err != nil {
			return err
		}
	}
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
