package bot

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects the policy the computer plays with.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"

	DefaultDifficulty = Medium
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty maps user input onto a Difficulty, ignoring case and
// surrounding whitespace.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}
