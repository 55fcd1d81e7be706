package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
)

// Expression is a parsed dice expression.
type Expression struct {
	Count       int
	Sides       int
	KeepHighest int // 0 keeps every die
	Modifier    int
}

// D20 is a single twenty-sided die.
var D20 = Expression{Count: 1, Sides: 20}

var expressionPattern = regexp.MustCompile(`^(\d*)d(\d+)(?:kh(\d+))?([+-]\d+)?$`)

// Parse parses "NdS", "NdSkhK" and either with a "+M" or "-M" suffix. N defaults to 1.
//
// Precondition: N >= 1, S >= 2, 0 < K < N.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	m := expressionPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, rpgerr.InvalidArgumentf("dice: malformed expression %q", expr)
	}
	e := Expression{Count: 1}
	var err error
	if m[1] != "" {
		if e.Count, err = strconv.Atoi(m[1]); err != nil || e.Count < 1 {
			return Expression{}, rpgerr.InvalidArgumentf("dice: die count in %q must be >= 1", expr)
		}
	}
	if e.Sides, err = strconv.Atoi(m[2]); err != nil || e.Sides < 2 {
		return Expression{}, rpgerr.InvalidArgumentf("dice: die sides in %q must be >= 2", expr)
	}
	if m[3] != "" {
		if e.KeepHighest, err = strconv.Atoi(m[3]); err != nil || e.KeepHighest < 1 || e.KeepHighest >= e.Count {
			return Expression{}, rpgerr.InvalidArgumentf("dice: keep-highest in %q must be in [1, %d)", expr, e.Count)
		}
	}
	if m[4] != "" {
		if e.Modifier, err = strconv.Atoi(m[4]); err != nil {
			return Expression{}, rpgerr.InvalidArgumentf("dice: modifier in %q out of range", expr)
		}
	}
	return e, nil
}

// MustParse parses expr and panics on error.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the canonical form of e.
func (e Expression) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%d", e.Count, e.Sides)
	if e.KeepHighest > 0 {
		fmt.Fprintf(&b, "kh%d", e.KeepHighest)
	}
	if e.Modifier != 0 {
		fmt.Fprintf(&b, "%+d", e.Modifier)
	}
	return b.String()
}

// Min returns the lowest possible total.
func (e Expression) Min() int {
	return e.kept() + e.Modifier
}

// Max returns the highest possible total.
func (e Expression) Max() int {
	return e.kept()*e.Sides + e.Modifier
}

func (e Expression) kept() int {
	if e.KeepHighest > 0 {
		return e.KeepHighest
	}
	return e.Count
}
