// Package widget derives what the prediction form displays from the current
// field values. Compute is a pure function of State; Session adds the one piece
// of memory the form needs, skipping the reduction when only the name changed.
package widget
