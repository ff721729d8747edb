// Package isbn normalizes, validates and converts ISBN-10 and ISBN-13
// identifiers as they appear in catalog queries and records.
package isbn

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize strips separators from an ISBN and validates its shape. The
// result is 10 or 13 characters with an upper-case check digit. Checksums
// are not verified here, catalogs are queried with whatever the user typed.
func Normalize(in string) (string, error) {
	s := strings.TrimSpace(in)
	if s == "" {
		return "", nil
	}

	// Be forgiving about common separators.
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '-' || unicode.IsSpace(r):
			return -1
		default:
			return r
		}
	}, s)
	s = strings.ToUpper(s)

	switch len(s) {
	case 10:
		for i := 0; i < 9; i++ {
			if !isDigit(s[i]) {
				return "", fmt.Errorf("isbn-10 must be digits with an optional X check digit, got %q", s[i])
			}
		}
		if c := s[9]; !isDigit(c) && c != 'X' {
			return "", fmt.Errorf("isbn-10 check digit must be 0-9 or X, got %q", c)
		}
	case 13:
		for i := 0; i < 13; i++ {
			if !isDigit(s[i]) {
				return "", fmt.Errorf("isbn-13 must be all digits, got %q", s[i])
			}
		}
	default:
		return "", fmt.Errorf("isbn must be 10 or 13 characters, got %d", len(s))
	}

	return s, nil
}

// Valid reports whether the input is a checksum-correct ISBN-10 or ISBN-13
// after normalization.
func Valid(in string) bool {
	s, err := Normalize(in)
	if err != nil || s == "" {
		return false
	}
	switch len(s) {
	case 10:
		return check10(s[:9]) == s[9:]
	case 13:
		return check13(s[:12]) == s[12:]
	}
	return false
}

// To13 converts an ISBN-10 to ISBN-13 by prepending 978 and recomputing the
// check digit. Returns an empty string if the input is not an ISBN-10.
func To13(isbn10 string) string {
	s, err := Normalize(isbn10)
	if err != nil || len(s) != 10 {
		return ""
	}
	base := "978" + s[:9]
	return base + check13(base)
}

// To10 converts a 978-prefixed ISBN-13 to ISBN-10. Returns an empty string
// if the input is not a convertible ISBN-13.
func To10(isbn13 string) string {
	s, err := Normalize(isbn13)
	if err != nil || len(s) != 13 || !strings.HasPrefix(s, "978") {
		return ""
	}
	base := s[3:12]
	return base + check10(base)
}

// check13 computes the ISBN-13 check digit over the first 12 digits.
func check13(base string) string {
	sum := 0
	for i := 0; i < len(base); i++ {
		d := int(base[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return string(rune('0' + (10-sum%10)%10))
}

// check10 computes the ISBN-10 check digit over the first 9 digits.
func check10(base string) string {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (10 - i)
	}
	check := (11 - sum%11) % 11
	if check == 10 {
		return "X"
	}
	return string(rune('0' + check))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
