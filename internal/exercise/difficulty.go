package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDifficulty is returned when a difficulty name cannot be parsed.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty is the ordered difficulty ladder. Higher values are harder.
type Difficulty int

const (
	VeryEasy Difficulty = iota
	Easy
	Medium
	Hard
)

// Range is an inclusive integer interval.
type Range struct {
	Low  int
	High int
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.Low && n <= r.High
}

// difficultyTable holds the numeric constraints for each level.
var difficultyTable = map[Difficulty]struct {
	small      Range
	large      Range
	maxProduct int
}{
	VeryEasy: {small: Range{1, 3}, large: Range{1, 20}, maxProduct: 50},
	Easy:     {small: Range{1, 5}, large: Range{1, 40}, maxProduct: 100},
	Medium:   {small: Range{2, 7}, large: Range{2, 70}, maxProduct: 200},
	Hard:     {small: Range{2, 10}, large: Range{2, 99}, maxProduct: 400},
}

// AllDifficulties returns every difficulty from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{VeryEasy, Easy, Medium, Hard}
}

// SmallRange is the operand range for the ≤10 categories.
func (d Difficulty) SmallRange() Range {
	return difficultyTable[d.clamp()].small
}

// LargeRange is the operand range for the ≤100 categories.
func (d Difficulty) LargeRange() Range {
	return difficultyTable[d.clamp()].large
}

// MaxProduct is the product ceiling for the large multiplication table.
func (d Difficulty) MaxProduct() int {
	return difficultyTable[d.clamp()].maxProduct
}

// Higher returns the next harder level, saturating at Hard.
func (d Difficulty) Higher() Difficulty {
	if d >= Hard {
		return Hard
	}
	return d + 1
}

// Lower returns the next easier level, saturating at VeryEasy.
func (d Difficulty) Lower() Difficulty {
	if d <= VeryEasy {
		return VeryEasy
	}
	return d - 1
}

func (d Difficulty) clamp() Difficulty {
	switch {
	case d < VeryEasy:
		return VeryEasy
	case d > Hard:
		return Hard
	}
	return d
}

func (d Difficulty) String() string {
	switch d {
	case VeryEasy:
		return "veryEasy"
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// DisplayName returns a human-readable label.
func (d Difficulty) DisplayName() string {
	switch d {
	case VeryEasy:
		return "Very easy"
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return d.String()
	}
}

// ParseDifficulty parses a difficulty name. Matching ignores case and
// accepts "very_easy" / "very-easy" spellings.
func ParseDifficulty(s string) (Difficulty, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range AllDifficulties() {
		if strings.ToLower(d.String()) == norm {
			return d, nil
		}
	}
	return VeryEasy, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}
