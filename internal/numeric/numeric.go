// Package numeric parses the integer notations accepted in definition
// files and on the command line: decimal, or hex with a 0x/0X prefix.
//
// A leading zero does not select octal, and the 0b/0o prefixes are not
// recognized, so "010" is ten.
package numeric

import (
	"strconv"
	"strings"
)

// splitBase strips a hex prefix from s and returns the base to parse the
// remainder in.
func splitBase(s string) (string, int) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], 16
	}
	return s, 10
}

// ParseUint parses s as an unsigned integer of the given bit size.
// Errors are *strconv.NumError values carrying the original input.
func ParseUint(s string, bitSize int) (uint64, error) {
	digits, base := splitBase(strings.TrimSpace(s))
	n, err := strconv.ParseUint(digits, base, bitSize)
	if err != nil {
		return 0, numError("ParseUint", s, err)
	}
	return n, nil
}

// ParseInt parses s as a signed integer of the given bit size. A sign may
// precede the hex prefix ("-0x10").
func ParseInt(s string, bitSize int) (int64, error) {
	t := strings.TrimSpace(s)
	sign := ""
	if t != "" && (t[0] == '-' || t[0] == '+') {
		sign, t = t[:1], t[1:]
	}
	digits, base := splitBase(t)
	if digits == "" || digits[0] == '-' || digits[0] == '+' {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	}
	n, err := strconv.ParseInt(sign+digits, base, bitSize)
	if err != nil {
		return 0, numError("ParseInt", s, err)
	}
	return n, nil
}

func numError(fn, s string, err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return &strconv.NumError{Func: fn, Num: s, Err: ne.Err}
	}
	return err
}
