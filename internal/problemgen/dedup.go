package problemgen

import "github.com/abhisek/mathdrill/internal/exercise"

// SignatureSet is a set of exercise signatures already used.
type SignatureSet map[string]struct{}

// NewSignatureSet builds a set from the signatures of the given exercises.
func NewSignatureSet(exercises ...exercise.Exercise) SignatureSet {
	s := make(SignatureSet, len(exercises))
	for _, ex := range exercises {
		s.Add(ex.Signature())
	}
	return s
}

// Add inserts a signature.
func (s SignatureSet) Add(sig string) {
	s[sig] = struct{}{}
}

// Has reports whether sig is present. A nil set contains nothing.
func (s SignatureSet) Has(sig string) bool {
	_, ok := s[sig]
	return ok
}

// Clone returns an independent copy.
func (s SignatureSet) Clone() SignatureSet {
	out := make(SignatureSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
