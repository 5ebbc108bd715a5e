// Package prediction turns a life path number into prediction text.
//
// Templates come from a YAML catalog (an embedded default ships with the
// package). In ModeDistinct each number selects its own narrative; in
// ModeClassic every number shares one paragraph and only the interpolated
// number changes.
package prediction
