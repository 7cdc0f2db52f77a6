package mastery

// Label is a coarse mastery band for a category accuracy.
type Label string

const (
	LabelMastered   Label = "mastered"
	LabelPracticing Label = "practicing"
	LabelNeedsWork  Label = "needs work"
)

// LabelFor maps an accuracy into its display band.
func LabelFor(accuracy float64) Label {
	switch {
	case accuracy >= 0.9:
		return LabelMastered
	case accuracy >= DefaultWeakAccuracyThreshold:
		return LabelPracticing
	default:
		return LabelNeedsWork
	}
}
