package simulate

import (
	"strconv"
	"time"

	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
)

// learner answers each attempt correctly with a fixed probability.
type learner struct {
	rng      problemgen.Rand
	accuracy float64
	min, max time.Duration
}

// play runs m to completion, advancing clock by each answer time.
func (l *learner) play(m *session.Machine, clock *simClock) ([]session.DifficultyChanged, session.Summary) {
	var changes []session.DifficultyChanged
	m.Start()

	for m.Phase() == session.PhaseInProgress {
		ex, ok := m.Current()
		if !ok {
			break
		}
		for !session.IsResolved(m.Feedback()) {
			m.ClearIncorrect()
			elapsed := l.elapsed()
			clock.now = clock.now.Add(elapsed)

			answer := ex.CorrectAnswer()
			if l.rng.Float64() >= l.accuracy {
				answer++
			}
			enter(m, answer)
			if m.Submit(elapsed) == nil {
				// rejected input; give up so the session can progress
				m.Skip(elapsed)
			}
		}
		for _, eff := range m.Next() {
			if c, ok := eff.(session.DifficultyChanged); ok {
				changes = append(changes, c)
			}
		}
	}
	return changes, m.Summary()
}

func (l *learner) elapsed() time.Duration {
	span := l.max - l.min
	if span <= 0 {
		return l.min
	}
	return l.min + time.Duration(l.rng.Float64()*float64(span))
}

func enter(m *session.Machine, n int) {
	if n < 0 {
		m.ToggleNegative()
		n = -n
	}
	for _, r := range strconv.Itoa(n) {
		m.AppendDigit(int(r - '0'))
	}
}
