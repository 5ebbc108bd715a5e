package lifepath

import "errors"

const (
	// DigitCount is the number of digits a date must carry (YYYYMMDD in any order).
	DigitCount = 8
	// Min and Max bound every life path number Reduce reports.
	Min = 1
	Max = 9
)

// ErrInvalidDate is returned by Validate when no life path can be derived.
var ErrInvalidDate = errors.New("lifepath: date must contain exactly 8 digits")

// Digits strips every byte that is not an ASCII digit.
func Digits(input string) string {
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		if c := input[i]; c >= '0' && c <= '9' {
			out = append(out, c)
		}
	}
	return string(out)
}

// Sum adds the decimal digits of an already normalised digit string.
func Sum(digits string) int {
	total := 0
	for i := 0; i < len(digits); i++ {
		total += int(digits[i] - '0')
	}
	return total
}

// ReduceSum folds n by its decimal digit sum until it is at most 9.
// Zero stays zero.
func ReduceSum(n int) int {
	for n > 9 {
		next := 0
		for v := n; v > 0; v /= 10 {
			next += v % 10
		}
		n = next
	}
	return n
}

// Reduce returns the life path number for input. The boolean is false when the
// input does not normalise to exactly eight digits, or when every digit is zero
// (the reduction would yield 0, which is not a life path).
func Reduce(input string) (int, bool) {
	digits := Digits(input)
	if len(digits) != DigitCount {
		return 0, false
	}
	n := ReduceSum(Sum(digits))
	if n < Min {
		return 0, false
	}
	return n, true
}

// Valid reports whether Reduce would produce a number for input.
func Valid(input string) bool {
	_, ok := Reduce(input)
	return ok
}

// Validate is Valid shaped as a prompt/form validator.
func Validate(input string) error {
	if !Valid(input) {
		return ErrInvalidDate
	}
	return nil
}
