// Package parse converts operator-supplied text into numbers.
package parse

import (
	"fmt"
	"strconv"
)

// FormatError is returned when the whole input is not a valid number of
// the requested width.
type FormatError struct {
	Input string
	Bits  int
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("parse %q as uint%d failed: %v", e.Input, e.Bits, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Uint parses s as a base 10 unsigned integer that fits in bits bits.
// Signs, surrounding whitespace and trailing garbage are all rejected.
func Uint(s string, bits int) (uint64, error) {
	if s == "" || s[0] == '+' {
		return 0, &FormatError{Input: s, Bits: bits, Err: strconv.ErrSyntax}
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			err = ne.Err
		}
		return 0, &FormatError{Input: s, Bits: bits, Err: err}
	}
	return v, nil
}

// Uint64 parses s as a uint64.
func Uint64(s string) (uint64, error) {
	return Uint(s, 64)
}

// Uint16 parses s as a uint16, as used for ports.
func Uint16(s string) (uint16, error) {
	v, err := Uint(s, 16)
	return uint16(v), err
}
