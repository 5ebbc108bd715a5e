package lifepath

import (
	"context"
	"io/fs"
	"net/http"

	component "github.com/goliatone/go-lifepath/components/lifepath"
	"github.com/goliatone/go-lifepath/pkg/formschema"
	reducer "github.com/goliatone/go-lifepath/pkg/lifepath"
	"github.com/goliatone/go-lifepath/pkg/prediction"
	"github.com/goliatone/go-lifepath/pkg/widget"
)

// View is the derived prediction shown to the user; alias exported via the
// root package for convenience.
type View = widget.View

// State holds the two form fields.
type State = widget.State

// Form describes the fields of the prediction form.
type Form = formschema.Form

// Reduce folds the digits of a date of birth into a life path number. ok is
// false unless the input carries exactly eight digits with a non-zero sum.
func Reduce(dob string) (int, bool) {
	return reducer.Reduce(dob)
}

// NewProvider exposes the prediction provider constructor from the top-level
// module.
func NewProvider(options ...prediction.Option) (*prediction.Provider, error) {
	return prediction.New(options...)
}

// Predict derives the view for name and dob using a provider built from
// options. It is the simplest entry point for callers that just want text.
func Predict(name, dob string, options ...prediction.Option) (View, error) {
	provider, err := prediction.New(options...)
	if err != nil {
		return View{}, err
	}
	return widget.Compute(State{Name: name, DOB: dob}, provider, nil)
}

// NewHandler returns the HTTP widget serving every route from the root.
func NewHandler(options ...component.OptionFn) http.Handler {
	return component.NewHandler(options...)
}

// LoadForm parses an OpenAPI document describing the prediction form. Use
// DefaultForm for the embedded document.
func LoadForm(ctx context.Context, raw []byte) (Form, error) {
	return formschema.Parse(ctx, raw, formschema.FormOperationID)
}

func DefaultForm(ctx context.Context) (Form, error) {
	return formschema.Default(ctx)
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the component package directly.
func EmbeddedTemplates() fs.FS {
	return component.TemplatesFS()
}
