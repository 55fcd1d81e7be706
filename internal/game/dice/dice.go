// Package dice parses and rolls dice expressions such as "d20", "5d10+4" and "4d6kh3".
package dice

import (
	"fmt"
	"strings"
)

// Result is the outcome of rolling an Expression.
type Result struct {
	Expression string // canonical expression, e.g. "4d6kh3+1"
	Dice       []int  // kept die faces in roll order
	Dropped    []int  // faces discarded by keep-highest
	Modifier   int
}

// Total returns the sum of the kept dice plus the modifier.
func (r Result) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// Natural returns the face of a single-die roll, or 0 when more than one die was kept.
func (r Result) Natural() int {
	if len(r.Dice) != 1 {
		return 0
	}
	return r.Dice[0]
}

// String renders the roll, e.g. "2d6+3: 4 5 (+3) = 12".
func (r Result) String() string {
	faces := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		faces[i] = fmt.Sprint(d)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", r.Expression, strings.Join(faces, " "))
	if r.Modifier != 0 {
		fmt.Fprintf(&b, " (%+d)", r.Modifier)
	}
	fmt.Fprintf(&b, " = %d", r.Total())
	return b.String()
}

// Source supplies uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) int
}
