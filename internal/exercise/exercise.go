package exercise

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format describes which part of the equation the learner fills in.
type Format int

const (
	// FormatStandard hides the result: "a + b = ?".
	FormatStandard Format = iota
	// FormatGapFirst hides the first operand: "? + b = r".
	FormatGapFirst
	// FormatGapSecond hides the second operand: "a + ? = r".
	FormatGapSecond
)

func (f Format) String() string {
	switch f {
	case FormatGapFirst:
		return "gap_first"
	case FormatGapSecond:
		return "gap_second"
	default:
		return "standard"
	}
}

// ParseFormat is the inverse of Format.String. Unknown values map to
// FormatStandard.
func ParseFormat(s string) Format {
	switch s {
	case "gap_first":
		return FormatGapFirst
	case "gap_second":
		return FormatGapSecond
	default:
		return FormatStandard
	}
}

// IsGapFill reports whether an operand is hidden.
func (f Format) IsGapFill() bool {
	return f == FormatGapFirst || f == FormatGapSecond
}

// Exercise is one immutable arithmetic problem.
type Exercise struct {
	ID         string
	Category   Category
	Operation  Operation
	First      int
	Second     int
	Difficulty Difficulty
	Format     Format

	// IsRetry is true when the operand pair was drawn from the learner's
	// weak-exercise pool.
	IsRetry bool

	CreatedAt time.Time
}

// Result returns the value of First op Second.
func (e Exercise) Result() int {
	return e.Operation.Apply(e.First, e.Second)
}

// CorrectAnswer returns the value the learner must enter: the result for
// the standard format, the hidden operand for gap-fill formats.
func (e Exercise) CorrectAnswer() int {
	switch e.Format {
	case FormatGapFirst:
		return e.First
	case FormatGapSecond:
		return e.Second
	default:
		return e.Result()
	}
}

// Signature identifies the exercise by category and operand pair. The
// format is not part of it.
func (e Exercise) Signature() string {
	return Signature(e.Category, e.First, e.Second)
}

// Text renders the equation with the unknown shown as "?".
func (e Exercise) Text() string {
	sym := e.Operation.Symbol()
	switch e.Format {
	case FormatGapFirst:
		return fmt.Sprintf("? %s %d = %d", sym, e.Second, e.Result())
	case FormatGapSecond:
		return fmt.Sprintf("%d %s ? = %d", e.First, sym, e.Result())
	default:
		return fmt.Sprintf("%d %s %d = ?", e.First, sym, e.Second)
	}
}

// Signature builds the signature string for a category and operand pair.
func Signature(c Category, first, second int) string {
	return fmt.Sprintf("%s:%d:%d", c, first, second)
}

// ParseSignature decodes a signature built by Signature.
func ParseSignature(sig string) (Category, int, int, error) {
	parts := strings.Split(sig, ":")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid signature %q", sig)
	}
	c, err := ParseCategory(parts[0])
	if err != nil {
		return "", 0, 0, err
	}
	first, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid first operand: %w", err)
	}
	second, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid second operand: %w", err)
	}
	return c, first, second, nil
}
