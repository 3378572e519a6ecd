package session

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultDelay = 500 * time.Millisecond
	MaxDelay     = 10 * time.Second
)

// Only a single plain decimal number is accepted as delay input.
var delayPattern = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// ParseDelay turns the raw "thinking time" input, in milliseconds, into the
// delay before the computer moves. Non-numeric input yields DefaultDelay;
// numbers are clamped to [0, MaxDelay].
func ParseDelay(raw string) time.Duration {
	s := strings.TrimSpace(raw)
	if !delayPattern.MatchString(s) {
		return DefaultDelay
	}

	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DefaultDelay
	}

	ms = min(max(ms, 0), float64(MaxDelay/time.Millisecond))
	return time.Duration(ms * float64(time.Millisecond))
}
