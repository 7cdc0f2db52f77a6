package problemgen

import "github.com/abhisek/mathdrill/internal/exercise"

// maxLargeTableDraws bounds the redraw loop for the large times table.
const maxLargeTableDraws = 200

// synthesize draws an operand pair satisfying the category constraints
// at the given difficulty.
func (g *Generator) synthesize(c exercise.Category, d exercise.Difficulty) (int, int) {
	switch c {
	case exercise.AdditionTo10:
		return g.boundedSum(d.SmallRange(), 10)
	case exercise.AdditionTo100:
		return g.boundedSum(d.LargeRange(), 100)
	case exercise.SubtractionTo10:
		r := d.SmallRange()
		a := intBetween(g.rng, r.Low, r.High)
		b := intBetween(g.rng, r.Low, a)
		return a, b
	case exercise.SubtractionTo100:
		// Negative results are allowed here.
		r := d.LargeRange()
		return intBetween(g.rng, r.Low, r.High), intBetween(g.rng, r.Low, r.High)
	case exercise.MultiplicationSmall:
		r := d.SmallRange()
		lo := max(r.Low, g.cfg.MinFactor)
		return intBetween(g.rng, lo, r.High), intBetween(g.rng, lo, r.High)
	case exercise.MultiplicationLarge:
		return g.largeTable(d)
	default:
		return g.boundedSum(d.SmallRange(), 10)
	}
}

// boundedSum draws a + b ≤ limit with both operands in r. The first
// operand leaves room for at least r.Low in the second.
func (g *Generator) boundedSum(r exercise.Range, limit int) (int, int) {
	a := intBetween(g.rng, r.Low, min(r.High, limit-r.Low))
	b := intBetween(g.rng, r.Low, min(r.High, limit-a))
	return a, b
}

// largeTable draws factors in [MinFactor, LargeTableMaxFactor] whose
// product stays within the difficulty's bound. At Hard, 10 and 20 are
// excluded.
func (g *Generator) largeTable(d exercise.Difficulty) (int, int) {
	lo := g.cfg.MinFactor
	if lo < 1 {
		lo = 1
	}
	hi := g.cfg.LargeTableMaxFactor
	bound := d.MaxProduct()

	for i := 0; i < maxLargeTableDraws; i++ {
		a := intBetween(g.rng, lo, min(hi, bound/lo))
		b := intBetween(g.rng, lo, min(hi, bound/a))
		if a*b > bound {
			continue
		}
		if d == exercise.Hard && (isTrivialFactor(a) || isTrivialFactor(b)) {
			continue
		}
		return a, b
	}
	return lo, lo + 1
}

func isTrivialFactor(n int) bool {
	return n == 10 || n == 20
}
