package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category name cannot be parsed.
var ErrUnknownCategory = errors.New("unknown category")

// Operation is the arithmetic operation of an exercise.
type Operation int

const (
	Add Operation = iota
	Subtract
	Multiply
)

// Apply combines two operands under the operation.
func (o Operation) Apply(a, b int) int {
	switch o {
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	default:
		return a + b
	}
}

// Opposite returns the inverse operation that a learner most commonly
// confuses with this one. Multiplication has none.
func (o Operation) Opposite() (Operation, bool) {
	switch o {
	case Add:
		return Subtract, true
	case Subtract:
		return Add, true
	default:
		return o, false
	}
}

// Symbol returns the operator glyph shown to the learner.
func (o Operation) Symbol() string {
	switch o {
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	default:
		return "+"
	}
}

func (o Operation) String() string {
	switch o {
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	default:
		return "add"
	}
}

// Category fixes an operation and a numeric domain.
type Category string

const (
	AdditionTo10        Category = "addition_10"
	AdditionTo100       Category = "addition_100"
	SubtractionTo10     Category = "subtraction_10"
	SubtractionTo100    Category = "subtraction_100"
	MultiplicationSmall Category = "multiplication_10"
	MultiplicationLarge Category = "multiplication_100"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		AdditionTo10, SubtractionTo10, MultiplicationSmall,
		AdditionTo100, SubtractionTo100, MultiplicationLarge,
	}
}

// Operation returns the arithmetic operation for the category.
func (c Category) Operation() Operation {
	switch c {
	case SubtractionTo10, SubtractionTo100:
		return Subtract
	case MultiplicationSmall, MultiplicationLarge:
		return Multiply
	default:
		return Add
	}
}

// IsLarge reports whether the category draws from the ≤100 domain.
func (c Category) IsLarge() bool {
	switch c {
	case AdditionTo100, SubtractionTo100, MultiplicationLarge:
		return true
	}
	return false
}

// AllowsGapFill reports whether gap-fill formats may be used.
func (c Category) AllowsGapFill() bool {
	return c == AdditionTo10 || c == SubtractionTo10
}

// AllowsNegative reports whether answers may be negative.
func (c Category) AllowsNegative() bool {
	return c == SubtractionTo100
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range AllCategories() {
		if k == c {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case AdditionTo10:
		return "Addition to 10"
	case AdditionTo100:
		return "Addition to 100"
	case SubtractionTo10:
		return "Subtraction to 10"
	case SubtractionTo100:
		return "Subtraction to 100"
	case MultiplicationSmall:
		return "Small times table"
	case MultiplicationLarge:
		return "Large times table"
	default:
		return string(c)
	}
}

// ParseCategory parses a category identifier such as "addition_10".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// ParseCategories parses a list of category identifiers.
func ParseCategories(names []string) ([]Category, error) {
	out := make([]Category, 0, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
