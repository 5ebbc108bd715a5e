package template

import (
	"io"
)

// TemplateRenderer is the contract the page and prediction renderers depend on.
// Implementations must be safe for concurrent use once constructed.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
