// Package modifier implements the bonus trackers every derived statistic is built from.
//
// A Tracker holds an ordered list of contributions and reduces them according to its
// stacking Policy. Nothing is cached: Total re-evaluates every contribution, so a
// calculation that reads another statistic always sees that statistic's current state.
package modifier

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
)

// Policy selects how a Tracker combines its contributions.
type Policy int

const (
	// Sum adds every contribution. Used for circumstance, dodge, and untyped bonuses
	// and for all penalties.
	Sum Policy = iota
	// Maximum counts only the largest contribution. Used for named bonus types such
	// as enhancement, morale, luck, sacred, and profane.
	Maximum
	// Minimum counts only the smallest contribution, starting from 255.
	Minimum
)

// String returns the lowercase name of the policy.
func (p Policy) String() string {
	switch p {
	case Sum:
		return "sum"
	case Maximum:
		return "maximum"
	case Minimum:
		return "minimum"
	default:
		return "unknown"
	}
}

// identity returns the total of an empty tracker under p.
func (p Policy) identity() uint8 {
	if p == Minimum {
		return 255
	}
	return 0
}

// Calculation produces a contribution's magnitude at read time.
type Calculation func() uint8

// Contribution is either a constant magnitude or a Calculation.
type Contribution struct {
	constant uint8
	calc     Calculation
}

// Constant returns a Contribution with a fixed magnitude.
func Constant(v uint8) Contribution {
	return Contribution{constant: v}
}

// Computed returns a Contribution evaluated on every read.
//
// Precondition: fn must not be nil.
func Computed(fn Calculation) (Contribution, error) {
	if fn == nil {
		return Contribution{}, rpgerr.InvalidArgument("calculation must not be nil")
	}
	return Contribution{calc: fn}, nil
}

// Value returns the contribution's current magnitude.
func (c Contribution) Value() uint8 {
	if c.calc != nil {
		return c.calc()
	}
	return c.constant
}

// IsComputed reports whether the contribution is evaluated lazily.
func (c Contribution) IsComputed() bool {
	return c.calc != nil
}

// Tracker accumulates contributions of one bonus category.
// It is not safe for concurrent use.
type Tracker struct {
	policy  Policy
	entries []Contribution
}

// New creates an empty Tracker with the given policy.
func New(policy Policy) *Tracker {
	return &Tracker{policy: policy}
}

// NewSum creates an empty stacking Tracker.
func NewSum() *Tracker { return New(Sum) }

// NewMaximum creates an empty non-stacking Tracker.
func NewMaximum() *Tracker { return New(Maximum) }

// NewMinimum creates an empty capped-minimum Tracker.
func NewMinimum() *Tracker { return New(Minimum) }

// Policy returns the tracker's stacking policy.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// Len returns the number of contributions added so far.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Add appends a constant contribution.
func (t *Tracker) Add(v uint8) {
	t.entries = append(t.entries, Constant(v))
}

// AddFunc appends a contribution computed by fn on every read.
//
// Precondition: fn must not be nil.
// Postcondition: Len() grows by one on success; the tracker is unchanged on error.
func (t *Tracker) AddFunc(fn Calculation) error {
	c, err := Computed(fn)
	if err != nil {
		return err
	}
	t.entries = append(t.entries, c)
	return nil
}

// AddContribution appends an already built Contribution.
func (t *Tracker) AddContribution(c Contribution) {
	t.entries = append(t.entries, c)
}

// Mirror appends a contribution that reads other's total.
// Adding to other later is reflected in t without further bookkeeping.
//
// Precondition: other must not be nil.
func (t *Tracker) Mirror(other *Tracker) error {
	if other == nil {
		return rpgerr.InvalidArgument("mirrored tracker must not be nil")
	}
	return t.AddFunc(other.Total)
}

// Total reduces all contributions according to the tracker's policy.
//
// Postcondition: Sum returns min(Σ, 255); Maximum returns 0 when empty;
// Minimum returns 255 when empty.
func (t *Tracker) Total() uint8 {
	switch t.policy {
	case Sum:
		total := 0
		for _, c := range t.entries {
			total += int(c.Value())
		}
		return Clamp(total)
	case Maximum:
		best := t.policy.identity()
		for _, c := range t.entries {
			if v := c.Value(); v > best {
				best = v
			}
		}
		return best
	case Minimum:
		least := t.policy.identity()
		for _, c := range t.entries {
			if v := c.Value(); v < least {
				least = v
			}
		}
		return least
	default:
		return 0
	}
}

// Clamp restricts v to [0, 255].
func Clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
