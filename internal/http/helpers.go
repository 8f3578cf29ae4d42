package http

import (
	"strings"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// formatAmount renders cents as a plain decimal string for templates.
func formatAmount(cents int64) string {
	return core.Money{Cents: cents}.String()
}
