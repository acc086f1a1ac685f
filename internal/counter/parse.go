package counter

import (
	"strconv"
	"strings"
)

// ParseStartingNumber reads a user supplied starting number leniently: surrounding
// whitespace and trailing garbage are ignored ("42abc" is 42), and anything without
// leading digits, including "", becomes 0. Negative input is clamped to 0.
func ParseStartingNumber(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsFrom := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsFrom {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		// out of range or negative
		return 0
	}
	return n
}
