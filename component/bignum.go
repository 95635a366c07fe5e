// Package component defines the values an operation produces and the
// equivalence rules used to compare them across backends.
package component

import (
	"errors"
	"math/big"
	"strings"
)

// ErrInvalidBignum is returned for text that is not an optionally negative
// decimal integer.
var ErrInvalidBignum = errors.New("component: invalid bignum")

// ValidBignum reports whether s is empty or an optional '-' followed by one or
// more ASCII digits.
func ValidBignum(s string) bool {
	if s == "" {
		return true
	}
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeBignum returns the canonical decimal form of s: no leading zeros,
// "0" for empty text and for negative zero.
func NormalizeBignum(s string) (string, error) {
	if !ValidBignum(s) {
		return "", ErrInvalidBignum
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0", nil
	}
	if neg {
		return "-" + s, nil
	}
	return s, nil
}

// ParseBignum parses s into a big.Int, treating empty text as zero.
func ParseBignum(s string) (*big.Int, error) {
	n, err := NormalizeBignum(s)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(n, 10)
	if !ok {
		return nil, ErrInvalidBignum
	}
	return v, nil
}

// BignumEqual compares a and b as integers. Text that is not a valid bignum is
// compared literally.
func BignumEqual(a, b string) bool {
	na, errA := NormalizeBignum(a)
	nb, errB := NormalizeBignum(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return na == nb
}

// Digits reports the number of decimal digits in s, ignoring a sign.
func Digits(s string) int {
	return len(strings.TrimPrefix(s, "-"))
}
