package notification

import (
	"fmt"
	"strings"
)

/* Mode is the integration mode of the running process
 * Test trusts every sender, Production enforces the allow-lists
 */
type Mode int

const (
	Production Mode = iota + 1
	Test
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "unknown"
	}
}

// ParseMode creates a Mode from a string. An empty string means production.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "production":
		return Production, nil
	case "test":
		return Test, nil
	default:
		return 0, fmt.Errorf("invalid integration mode: %q (expected test or production)", s)
	}
}

// Validate checks if the mode is valid
func (m Mode) Validate() error {
	if m != Production && m != Test {
		return fmt.Errorf("invalid integration mode: %d", m)
	}
	return nil
}
