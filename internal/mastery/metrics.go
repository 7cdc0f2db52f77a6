package mastery

import (
	"sort"
	"time"

	"github.com/abhisek/mathdrill/internal/exercise"
)

// DefaultWeakAccuracyThreshold is the aggregate accuracy below which an
// operand pair is considered weak.
const DefaultWeakAccuracyThreshold = 0.6

// Config controls metrics computation.
type Config struct {
	// WeakAccuracyThreshold marks a signature weak when its aggregate
	// accuracy over the lookback window is strictly below it.
	WeakAccuracyThreshold float64
}

// DefaultConfig returns the standard metrics configuration.
func DefaultConfig() Config {
	return Config{WeakAccuracyThreshold: DefaultWeakAccuracyThreshold}
}

// Record is one historical attempt as supplied by the history store.
type Record struct {
	Category  exercise.Category
	First     int
	Second    int
	Signature string
	Correct   bool
	Timestamp time.Time
}

// RecordFromResult converts a finished exercise result into a history record.
func RecordFromResult(r exercise.Result, at time.Time) Record {
	return Record{
		Category:  r.Exercise.Category,
		First:     r.Exercise.First,
		Second:    r.Exercise.Second,
		Signature: r.Exercise.Signature(),
		Correct:   r.Correct,
		Timestamp: at,
	}
}

// key is always derived from category and operands so that records
// written under any presentation format collapse to one signature.
func (r Record) key() string {
	return exercise.Signature(r.Category, r.First, r.Second)
}

// OperandPair is an (a, b) pair within a category.
type OperandPair struct {
	First  int
	Second int
}

// Metrics is a read-only snapshot of learner performance, built once per
// session start.
type Metrics struct {
	// CategoryAccuracy is correct/total per category over the window.
	CategoryAccuracy map[exercise.Category]float64

	// WeakPairs lists weak operand pairs per category, sorted by operands.
	WeakPairs map[exercise.Category][]OperandPair

	weak map[string]bool
}

// ComputeMetrics reduces records using the default configuration.
// Returns nil when records is empty.
func ComputeMetrics(records []Record) *Metrics {
	return DefaultConfig().Compute(records)
}

// Compute reduces records into a Metrics snapshot. Returns nil when
// records is empty.
func (c Config) Compute(records []Record) *Metrics {
	if len(records) == 0 {
		return nil
	}

	type tally struct {
		total   int
		correct int
	}
	byCategory := make(map[exercise.Category]*tally)
	bySignature := make(map[string]*tally)
	pairOf := make(map[string]Record)

	for _, r := range records {
		ct := byCategory[r.Category]
		if ct == nil {
			ct = &tally{}
			byCategory[r.Category] = ct
		}
		ct.total++

		k := r.key()
		st := bySignature[k]
		if st == nil {
			st = &tally{}
			bySignature[k] = st
			pairOf[k] = r
		}
		st.total++

		if r.Correct {
			ct.correct++
			st.correct++
		}
	}

	m := &Metrics{
		CategoryAccuracy: make(map[exercise.Category]float64, len(byCategory)),
		WeakPairs:        make(map[exercise.Category][]OperandPair),
		weak:             make(map[string]bool),
	}
	for cat, t := range byCategory {
		m.CategoryAccuracy[cat] = float64(t.correct) / float64(t.total)
	}
	for k, t := range bySignature {
		acc := float64(t.correct) / float64(t.total)
		if acc >= c.WeakAccuracyThreshold {
			continue
		}
		r := pairOf[k]
		m.weak[k] = true
		m.WeakPairs[r.Category] = append(m.WeakPairs[r.Category], OperandPair{First: r.First, Second: r.Second})
	}
	for cat := range m.WeakPairs {
		pairs := m.WeakPairs[cat]
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].First != pairs[j].First {
				return pairs[i].First < pairs[j].First
			}
			return pairs[i].Second < pairs[j].Second
		})
	}
	return m
}

// Accuracy returns the accuracy for a category and whether it is known.
func (m *Metrics) Accuracy(c exercise.Category) (float64, bool) {
	if m == nil {
		return 0, false
	}
	acc, ok := m.CategoryAccuracy[c]
	return acc, ok
}

// WeakPool returns the weak operand pairs for a category.
func (m *Metrics) WeakPool(c exercise.Category) []OperandPair {
	if m == nil {
		return nil
	}
	return m.WeakPairs[c]
}

// IsWeak reports whether the operand pair is flagged weak for the category.
func (m *Metrics) IsWeak(c exercise.Category, first, second int) bool {
	if m == nil {
		return false
	}
	return m.weak[exercise.Signature(c, first, second)]
}

// IsEmpty reports whether the snapshot carries no category data.
func (m *Metrics) IsEmpty() bool {
	return m == nil || len(m.CategoryAccuracy) == 0
}

// MeanAccuracy is the unweighted mean of per-category accuracies.
func (m *Metrics) MeanAccuracy() float64 {
	if m.IsEmpty() {
		return 0
	}
	sum := 0.0
	for _, acc := range m.CategoryAccuracy {
		sum += acc
	}
	return sum / float64(len(m.CategoryAccuracy))
}

// Categories returns the categories present in the snapshot, in
// exercise.AllCategories order.
func (m *Metrics) Categories() []exercise.Category {
	if m == nil {
		return nil
	}
	var out []exercise.Category
	for _, c := range exercise.AllCategories() {
		if _, ok := m.CategoryAccuracy[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
