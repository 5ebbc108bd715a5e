// Package formschema describes the prediction form with an embedded OpenAPI
// document. Front ends read field labels, placeholders and input kinds from it
// instead of hardcoding them, and the HTTP component serves it verbatim.
package formschema
