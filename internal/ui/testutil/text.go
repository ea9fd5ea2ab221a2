package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Plain strips terminal escape sequences from rendered output.
func Plain(s string) string { return ansi.Strip(s) }

// Lines splits rendered output into unstyled lines.
func Lines(s string) []string { return strings.Split(Plain(s), "\n") }

// FindLine returns the first unstyled line containing substr.
func FindLine(s, substr string) (string, bool) {
	for _, line := range Lines(s) {
		if strings.Contains(line, substr) {
			return line, true
		}
	}
	return "", false
}
