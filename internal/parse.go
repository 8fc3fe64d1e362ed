package internal

import (
	"fmt"
	"strings"
)

// ParseClock parses a strict "HH:MM" string. Both fields must be exactly two
// ASCII digits; range checking is left to the caller.
func ParseClock(s string) (hours, minutes int, err error) {
	rawHours, rawMinutes, ok := SplitPair(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("expected exactly one ':' separator in %q", s)
	}

	hours, err = parseTwoDigits(rawHours)
	if err != nil {
		return 0, 0, fmt.Errorf("hours in %q: %w", s, err)
	}
	minutes, err = parseTwoDigits(rawMinutes)
	if err != nil {
		return 0, 0, fmt.Errorf("minutes in %q: %w", s, err)
	}

	return hours, minutes, nil
}

// SplitPair splits s around sep, reporting false unless sep occurs exactly once.
func SplitPair(s, sep string) (string, string, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func parseTwoDigits(s string) (int, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%q must be exactly 2 digits", s)
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%q is not numeric", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
