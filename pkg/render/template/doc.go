// Package template defines the template rendering seam shared by the HTML page
// and the prediction catalog. The pongo2 backed implementation lives in the
// gotemplate subpackage.
package template
