package exercise

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyAnswer is returned by ParseAnswer for an empty buffer.
var ErrEmptyAnswer = errors.New("empty answer")

// ParseAnswer parses the learner's digit buffer into an integer.
//
// Whitespace is trimmed and leading zeros are ignored ("007" is 7). Only
// ASCII digits are accepted; the sign is carried separately by the
// negative toggle and applied here.
func ParseAnswer(buffer string, negative bool) (int, error) {
	buffer = strings.TrimSpace(buffer)
	if buffer == "" {
		return 0, ErrEmptyAnswer
	}
	for _, r := range buffer {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid answer %q: non-digit %q", buffer, r)
		}
	}
	n, err := strconv.Atoi(buffer)
	if err != nil {
		return 0, fmt.Errorf("invalid answer %q: %w", buffer, err)
	}
	if negative {
		n = -n
	}
	return n, nil
}
