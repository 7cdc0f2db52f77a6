package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.errMsg != "" {
		return center(width, theme.Incorrect.Render("Could not save the session: "+s.errMsg)) +
			"\n\n" + center(width, theme.Hint.Render("Press any key to go back"))
	}
	if s.saving {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Subtitle.Render("Saving..."))
	}

	ex, ok := s.machine.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")

	bar := components.NewProgressBar(s.machine.Index(), s.machine.Len(), min(width-8, 60))
	b.WriteString(center(width, bar.View()))
	b.WriteString("\n\n\n")

	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(ex.Text())))
	b.WriteString("\n\n")
	b.WriteString(center(width, s.renderAnswerBox()))
	b.WriteString("\n\n")
	b.WriteString(s.renderFeedback(width))

	if s.machine.Encouragement() {
		b.WriteString("\n\n")
		b.WriteString(center(width, theme.Encourage.Render("Tricky ones! Let's try some a bit easier. You've got this!")))
	}
	if s.change != nil && s.change.Reason == session.ReasonAdaptive {
		b.WriteString("\n\n")
		verb := "Level up!"
		if s.change.To < s.change.From {
			verb = "Let's slow down."
		}
		b.WriteString(center(width, theme.Hint.Render(fmt.Sprintf("%s Now playing %s.", verb, s.change.To.DisplayName()))))
	}

	if s.confirmQuit {
		b.WriteString("\n\n")
		b.WriteString(center(width, components.ArcadeCard(
			theme.Body.Render("Stop practicing? Your answers so far will be saved.")+"\n\n"+
				theme.Hint.Render("y = stop   n = keep going"),
			min(width-8, 56),
		)))
	}

	return b.String()
}

func (s *PracticeScreen) renderInfoLine(width int) string {
	results := s.machine.Results()
	earned := 0
	for _, r := range results {
		earned += r.Stars()
	}

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Exercise %d/%d", s.machine.Index()+1, s.machine.Len()))

	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.machine.Difficulty().DisplayName()+"   ") +
		theme.StarOn.Render(fmt.Sprintf("★ %d", earned))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *PracticeScreen) renderAnswerBox() string {
	buf := s.machine.Buffer()
	if buf == "" || buf == "-" {
		buf += "_"
	}

	border := theme.Border
	switch s.machine.Feedback().(type) {
	case session.FeedbackCorrect, session.FeedbackRevenge:
		border = theme.Success
	case session.FeedbackIncorrect, session.FeedbackWrongOperation:
		border = theme.Error
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(theme.Text).
		Bold(true).
		Width(12).
		Align(lipgloss.Center).
		Render(buf)
}

func (s *PracticeScreen) renderFeedback(width int) string {
	switch fb := s.machine.Feedback().(type) {
	case session.FeedbackCorrect:
		return center(width, theme.Correct.Render("Correct!")) + "\n" + center(width, components.Stars(fb.Stars))
	case session.FeedbackRevenge:
		return center(width, theme.Revenge.Render("Revenge! You beat a tricky one!")) + "\n" + center(width, components.Stars(fb.Stars))
	case session.FeedbackIncorrect:
		left := s.machine.Config().MaxAttempts - s.machine.Attempts()
		return center(width, theme.Incorrect.Render("Not quite.")) + "\n" +
			center(width, theme.Hint.Render(triesLeft(left)))
	case session.FeedbackWrongOperation:
		return center(width, theme.Incorrect.Render(fmt.Sprintf(
			"Careful! You %s instead of %s.", pastTense(fb.Wrong), gerund(fb.Correct))))
	case session.FeedbackShowAnswer:
		return center(width, theme.Body.Render(fmt.Sprintf("The answer is %d.", fb.Answer))) + "\n" +
			center(width, theme.Hint.Render("You'll see this one again soon."))
	default:
		return ""
	}
}

func pastTense(o exercise.Operation) string {
	switch o {
	case exercise.Subtract:
		return "subtracted"
	case exercise.Multiply:
		return "multiplied"
	default:
		return "added"
	}
}

func gerund(o exercise.Operation) string {
	switch o {
	case exercise.Subtract:
		return "subtracting"
	case exercise.Multiply:
		return "multiplying"
	default:
		return "adding"
	}
}

func triesLeft(n int) string {
	if n == 1 {
		return "1 try left"
	}
	return fmt.Sprintf("%d tries left", n)
}

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
