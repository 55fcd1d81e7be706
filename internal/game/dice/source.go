package dice

import (
	"crypto/rand"
	"math/big"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn panics if n <= 0 or crypto/rand fails.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Sequence is a Source that replays fixed die faces, cycling when exhausted.
// Faces are 1-based as printed on the die.
type Sequence struct {
	faces []int
	next  int
}

// NewSequence returns a Sequence over faces.
//
// Precondition: faces must be non-empty.
func NewSequence(faces ...int) *Sequence {
	if len(faces) == 0 {
		panic("dice: NewSequence needs at least one face")
	}
	return &Sequence{faces: faces}
}

// Intn returns the next face minus one. It panics when that face cannot appear on
// an n-sided die.
func (s *Sequence) Intn(n int) int {
	face := s.faces[s.next%len(s.faces)]
	s.next++
	if face < 1 || face > n {
		panic("dice: sequence face out of range for die")
	}
	return face - 1
}
