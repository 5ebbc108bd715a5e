package formschema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed data/lifepath.openapi.yaml
var dataFS embed.FS

const (
	defaultDocumentPath = "data/lifepath.openapi.yaml"

	// FormOperationID is the operation whose parameters make up the form.
	FormOperationID = "getPrediction"

	extensionLabel       = "x-form-label"
	extensionPlaceholder = "x-form-placeholder"
	extensionInput       = "x-form-input"
)

// Field is one form control.
type Field struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Input       string `json:"input"`
	Placeholder string `json:"placeholder,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
	Required    bool   `json:"required"`
	MaxLength   int    `json:"max_length,omitempty"`
}

// Form is the parsed form description.
type Form struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	OperationID string  `json:"operation_id"`
	Method      string  `json:"method"`
	Path        string  `json:"path"`
	Fields      []Field `json:"fields"`
}

// Field returns the named field.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Document returns the raw embedded OpenAPI document.
func Document() ([]byte, error) {
	return dataFS.ReadFile(defaultDocumentPath)
}

var (
	defaultOnce sync.Once
	defaultForm Form
	defaultErr  error
)

// Default parses the embedded document once and returns the form. ctx only
// gates the call; the cached parse never sees a caller's cancellation.
func Default(ctx context.Context) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	defaultOnce.Do(func() {
		raw, err := Document()
		if err != nil {
			defaultErr = fmt.Errorf("formschema: read document: %w", err)
			return
		}
		defaultForm, defaultErr = Parse(context.Background(), raw, FormOperationID)
	})
	if defaultErr != nil {
		return Form{}, defaultErr
	}
	return defaultForm.clone(), nil
}

// Parse loads and validates an OpenAPI document and extracts the query
// parameters of operationID as form fields.
func Parse(ctx context.Context, raw []byte, operationID string) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	if len(raw) == 0 {
		return Form{}, errors.New("formschema: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return Form{}, fmt.Errorf("formschema: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Form{}, fmt.Errorf("formschema: validate: %w", err)
	}
	if doc.Paths == nil {
		return Form{}, errors.New("formschema: document does not contain any paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID != operationID {
				continue
			}
			form := Form{
				OperationID: operationID,
				Method:      strings.ToUpper(method),
				Path:        path,
			}
			if doc.Info != nil {
				form.Title = doc.Info.Title
				form.Description = doc.Info.Description
			}
			form.Fields = collectFields(op.Parameters)
			return form, nil
		}
	}
	return Form{}, fmt.Errorf("formschema: operation %q not found", operationID)
}

func collectFields(params openapi3.Parameters) []Field {
	fields := make([]Field, 0, len(params))
	for _, ref := range params {
		if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
			continue
		}
		p := ref.Value
		field := Field{
			Name:        p.Name,
			Label:       extensionString(p.Extensions, extensionLabel),
			Placeholder: extensionString(p.Extensions, extensionPlaceholder),
			Input:       extensionString(p.Extensions, extensionInput),
			Description: p.Description,
			Required:    p.Required,
		}
		if p.Schema != nil && p.Schema.Value != nil {
			field.Format = p.Schema.Value.Format
			if p.Schema.Value.MaxLength != nil {
				field.MaxLength = int(*p.Schema.Value.MaxLength)
			}
		}
		if field.Label == "" {
			field.Label = p.Name
		}
		if field.Input == "" {
			field.Input = inputForFormat(field.Format)
		}
		fields = append(fields, field)
	}
	return fields
}

func inputForFormat(format string) string {
	switch format {
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	default:
		return "text"
	}
}

func extensionString(ext map[string]any, key string) string {
	if len(ext) == 0 {
		return ""
	}
	value, ok := ext[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func (f Form) clone() Form {
	out := f
	out.Fields = append([]Field(nil), f.Fields...)
	return out
}
