// Package lifepath reduces a date of birth to its numerology life path number.
//
// The reduction is format agnostic: every non-digit byte is discarded, exactly
// eight digits must remain, and the digit sum is folded until a single digit
// is left. Calendar validity is never checked.
package lifepath
