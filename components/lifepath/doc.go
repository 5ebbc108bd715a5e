// Package lifepath is an embeddable net/http component for the live date of
// birth prediction form.
//
// It serves four routes under a caller chosen base path: the HTML page, a JSON
// endpoint returning the derived view, a prediction.txt download, and the
// OpenAPI document describing the form. Nothing is stored; every request
// recomputes the view from its query parameters.
package lifepath
