package widget

import (
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-lifepath/pkg/export"
	"github.com/goliatone/go-lifepath/pkg/lifepath"
)

// NotReadyMessage is shown in place of a prediction when the date is unusable.
const NotReadyMessage = "Pick a valid date to see your prediction."

// ErrNoDescriber is returned by Compute when a date reduces but no Describer
// was supplied.
var ErrNoDescriber = errors.New("widget: describer is required")

// Describer renders prediction text for a life path number.
type Describer interface {
	Describe(lifePath int) (string, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(lifePath int) (string, error)

func (f DescriberFunc) Describe(lifePath int) (string, error) { return f(lifePath) }

// State is the form input for one render cycle.
type State struct {
	Name string `json:"name"`
	DOB  string `json:"dob"`
}

// View is everything a front end needs to render a cycle.
type View struct {
	Ready       bool      `json:"ready"`
	Name        string    `json:"name,omitempty"`
	LifePath    int       `json:"life_path,omitempty"`
	Message     string    `json:"message,omitempty"`
	Greeting    string    `json:"greeting,omitempty"`
	CopyText    string    `json:"copy_text,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitzero"`
}

// Compute derives the view for state. A date without a life path produces a
// zero, not-ready view and no error; errors only come from the describer.
func Compute(state State, describe Describer, now func() time.Time) (View, error) {
	lp, ok := lifepath.Reduce(state.DOB)
	if !ok {
		return View{Name: strings.TrimSpace(state.Name)}, nil
	}
	if describe == nil {
		return View{}, ErrNoDescriber
	}
	message, err := describe.Describe(lp)
	if err != nil {
		return View{}, err
	}
	if now == nil {
		now = time.Now
	}
	return withName(View{
		Ready:       true,
		LifePath:    lp,
		Message:     message,
		GeneratedAt: now().UTC(),
	}, state.Name), nil
}

// withName refreshes the name dependent fields of v.
func withName(v View, name string) View {
	v.Name = strings.TrimSpace(name)
	v.Greeting = ""
	v.CopyText = ""
	if !v.Ready {
		return v
	}
	if v.Name != "" {
		v.Greeting = v.Name + ","
	}
	v.CopyText = export.CopyText(v.Name, v.Message)
	return v
}
