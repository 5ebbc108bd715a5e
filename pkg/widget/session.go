package widget

import (
	"time"
)

// Session tracks the form fields between edits. It is not safe for concurrent
// use; each form instance owns one.
type Session struct {
	describe Describer
	now      func() time.Time

	state       State
	view        View
	derivations int
}

// NewSession returns a session with empty fields.
func NewSession(describe Describer, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{describe: describe, now: now}
}

// State returns the current field values.
func (s *Session) State() State { return s.state }

// View returns the most recently derived view.
func (s *Session) View() View { return s.view }

// Derivations reports how many times the date has been reduced.
func (s *Session) Derivations() int { return s.derivations }

// SetDOB updates the date field and recomputes the prediction when it changed.
func (s *Session) SetDOB(dob string) (View, error) {
	if dob == s.state.DOB && s.derivations > 0 {
		return s.view, nil
	}
	next := State{Name: s.state.Name, DOB: dob}
	view, err := Compute(next, s.describe, s.now)
	if err != nil {
		return s.view, err
	}
	s.state = next
	s.view = view
	s.derivations++
	return s.view, nil
}

// SetName updates the name field. The life path, message and timestamp are
// reused; only the greeting and copy text change.
func (s *Session) SetName(name string) View {
	s.state.Name = name
	s.view = withName(s.view, name)
	return s.view
}
