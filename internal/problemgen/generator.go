package problemgen

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
)

// GenerateInput holds everything needed to generate a single exercise.
type GenerateInput struct {
	Difficulty exercise.Difficulty
	Category   exercise.Category

	// Exclude holds signatures that should not be produced again.
	Exclude SignatureSet

	// Metrics biases generation toward weak pairs. May be nil.
	Metrics *mastery.Metrics

	// AllowGapFill enables gap-fill formats for eligible categories.
	AllowGapFill bool
}

// SessionInput holds everything needed to generate a run of exercises.
type SessionInput struct {
	Count      int
	Difficulty exercise.Difficulty

	// Categories enabled for the session. Empty means all categories.
	Categories []exercise.Category

	Metrics      *mastery.Metrics
	AllowGapFill bool

	// Exclude holds signatures already presented (e.g. earlier in the
	// session when regenerating the remainder).
	Exclude SignatureSet
}

// Generator synthesizes arithmetic exercises.
type Generator struct {
	cfg   Config
	rng   Rand
	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDFunc overrides exercise ID generation.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a Generator drawing from rng.
func New(cfg Config, rng Rand, opts ...Option) *Generator {
	g := &Generator{
		cfg:   cfg,
		rng:   rng,
		now:   time.Now,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate produces one exercise for the input.
//
// With RetryProbability it replays a weak operand pair for the category
// (marked IsRetry) unless that signature is excluded. Otherwise it
// synthesizes a fresh pair, retrying up to MaxSynthesisAttempts times to
// avoid excluded signatures. When every attempt collides, the last
// candidate is returned anyway.
func (g *Generator) Generate(in GenerateInput) exercise.Exercise {
	if pool := in.Metrics.WeakPool(in.Category); len(pool) > 0 && g.rng.Float64() < g.cfg.RetryProbability {
		p := pool[g.rng.IntN(len(pool))]
		if !in.Exclude.Has(exercise.Signature(in.Category, p.First, p.Second)) {
			return g.build(in, p.First, p.Second, true)
		}
	}

	attempts := g.cfg.MaxSynthesisAttempts
	if attempts < 1 {
		attempts = 1
	}
	var a, b int
	for i := 0; i < attempts; i++ {
		a, b = g.synthesize(in.Category, in.Difficulty)
		if !in.Exclude.Has(exercise.Signature(in.Category, a, b)) {
			return g.build(in, a, b, false)
		}
	}

	g.log.Debug("accepting duplicate exercise",
		zap.String("signature", exercise.Signature(in.Category, a, b)),
		zap.Int("attempts", attempts),
	)
	return g.build(in, a, b, false)
}

// GenerateSession produces Count exercises, choosing a category per slot
// by weighted draw and never repeating a signature within the run unless
// the generator is exhausted.
func (g *Generator) GenerateSession(in SessionInput) []exercise.Exercise {
	categories := in.Categories
	if len(categories) == 0 {
		categories = exercise.AllCategories()
	}

	used := in.Exclude.Clone()
	out := make([]exercise.Exercise, 0, max(in.Count, 0))
	for i := 0; i < in.Count; i++ {
		cat := g.WeightedCategory(categories, in.Metrics)
		ex := g.Generate(GenerateInput{
			Difficulty:   in.Difficulty,
			Category:     cat,
			Exclude:      used,
			Metrics:      in.Metrics,
			AllowGapFill: in.AllowGapFill,
		})
		used.Add(ex.Signature())
		out = append(out, ex)
	}
	return out
}

// WeightedCategory picks a category. Without metrics the choice is
// uniform. With metrics each category weighs 1 + (1 - accuracy), or 1
// when absent, so weaker categories are drilled more. A single threshold
// in [0, total) is walked down by cumulative subtraction; floating-point
// leftovers fall through to the last category.
func (g *Generator) WeightedCategory(categories []exercise.Category, m *mastery.Metrics) exercise.Category {
	if len(categories) == 0 {
		return exercise.AdditionTo10
	}
	if m.IsEmpty() {
		return categories[g.rng.IntN(len(categories))]
	}

	weights := make([]float64, len(categories))
	total := 0.0
	for i, c := range categories {
		w := 1.0
		if acc, ok := m.Accuracy(c); ok {
			w = 1.0 + (1.0 - acc)
		}
		weights[i] = w
		total += w
	}

	threshold := g.rng.Float64() * total
	for i, w := range weights {
		threshold -= w
		if threshold < 0 {
			return categories[i]
		}
	}
	return categories[len(categories)-1]
}

func (g *Generator) build(in GenerateInput, a, b int, retry bool) exercise.Exercise {
	return exercise.Exercise{
		ID:         g.newID(),
		Category:   in.Category,
		Operation:  in.Category.Operation(),
		First:      a,
		Second:     b,
		Difficulty: in.Difficulty,
		Format:     g.chooseFormat(in),
		IsRetry:    retry,
		CreatedAt:  g.now(),
	}
}

func (g *Generator) chooseFormat(in GenerateInput) exercise.Format {
	if !in.AllowGapFill || !in.Category.AllowsGapFill() {
		return exercise.FormatStandard
	}
	if g.rng.Float64() >= g.cfg.GapFillProbability {
		return exercise.FormatStandard
	}
	if g.rng.IntN(2) == 0 {
		return exercise.FormatGapFirst
	}
	return exercise.FormatGapSecond
}
