// Package check resolves d20 rolls against the derived statistics of a character:
// attacks against armor class, saving throws against difficulty classes and combat
// maneuvers against combat maneuver defense.
package check

import (
	"fmt"

	"go.uber.org/zap"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/defense"
	"github.com/cory-johannsen/statblock/internal/game/dice"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

// Statistic is a derived total that depends on size and may be unsupported.
// WeaponAttackBonus, CombatManeuverBonus, ArmorClass and CombatManeuverDefense
// satisfy it.
type Statistic interface {
	Total() (int, error)
}

// Bonus is a derived total that cannot fail, such as a saving throw.
type Bonus interface {
	Total() int
}

// StatisticFunc adapts a function to Statistic.
type StatisticFunc func() (int, error)

// Total calls f.
func (f StatisticFunc) Total() (int, error) { return f() }

// Touch returns the touch armor class of ac as a Statistic.
func Touch(ac *defense.ArmorClass) Statistic { return StatisticFunc(ac.TouchTotal) }

// FlatFooted returns the flat-footed armor class of ac as a Statistic.
func FlatFooted(ac *defense.ArmorClass) Statistic { return StatisticFunc(ac.FlatFootedTotal) }

// Kind names the type of check.
type Kind string

const (
	Attack   Kind = "attack"
	Save     Kind = "save"
	Maneuver Kind = "maneuver"
)

// Outcome is the result of one check.
type Outcome struct {
	Kind     Kind
	Natural  int
	Modifier int
	Target   int
	Success  bool
	// Threat is set when an attack's natural roll is a 20.
	Threat bool
}

// Total returns natural roll plus modifier.
func (o Outcome) Total() int {
	return o.Natural + o.Modifier
}

// String renders the outcome, e.g. "attack 14+7=21 vs 18: success".
func (o Outcome) String() string {
	result := "failure"
	if o.Success {
		result = "success"
	}
	if o.Threat {
		result += " (threat)"
	}
	return fmt.Sprintf("%s %d%+d=%d vs %d: %s", o.Kind, o.Natural, o.Modifier, o.Total(), o.Target, result)
}

// Resolver rolls checks with a dice.Roller.
type Resolver struct {
	roller *dice.Roller
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
//
// Precondition: roller must not be nil.
func NewResolver(roller *dice.Roller, logger *zap.Logger) (*Resolver, error) {
	if roller == nil {
		return nil, rpgerr.InvalidArgument("roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{roller: roller, logger: logger}, nil
}

// Attack rolls an attack with bonus against ac. A natural 20 always hits and
// threatens a critical; a natural 1 always misses.
func (r *Resolver) Attack(bonus, ac Statistic) (Outcome, error) {
	o, err := r.contest(Attack, bonus, ac)
	if err != nil {
		return Outcome{}, err
	}
	o.Threat = o.Natural == 20
	r.log(o)
	return o, nil
}

// Maneuver rolls a combat maneuver with cmb against cmd. A natural 20 always
// succeeds and a natural 1 always fails.
func (r *Resolver) Maneuver(cmb, cmd Statistic) (Outcome, error) {
	o, err := r.contest(Maneuver, cmb, cmd)
	if err != nil {
		return Outcome{}, err
	}
	r.log(o)
	return o, nil
}

// Save rolls a saving throw against dc. A natural 20 always succeeds and a
// natural 1 always fails.
func (r *Resolver) Save(st Bonus, dc int) Outcome {
	o := r.roll(Save, st.Total(), dc)
	r.log(o)
	return o
}

// SaveAgainst rolls a saving throw against the difficulty class of s.
//
// Precondition: s must allow a saving throw.
func (r *Resolver) SaveAgainst(st Bonus, s *spell.CastableSpell) (Outcome, error) {
	if s == nil {
		return Outcome{}, rpgerr.InvalidArgument("spell must not be nil")
	}
	dc, ok := s.DifficultyClass()
	if !ok {
		return Outcome{}, rpgerr.InvalidStatef("%s does not allow a saving throw", s.Definition().Name)
	}
	return r.Save(st, dc), nil
}

func (r *Resolver) contest(kind Kind, bonus, target Statistic) (Outcome, error) {
	modifier, err := bonus.Total()
	if err != nil {
		return Outcome{}, rpgerr.Wrapf(err, "resolving %s bonus", kind)
	}
	against, err := target.Total()
	if err != nil {
		return Outcome{}, rpgerr.Wrapf(err, "resolving %s target", kind)
	}
	return r.roll(kind, modifier, against), nil
}

func (r *Resolver) roll(kind Kind, modifier, target int) Outcome {
	o := Outcome{Kind: kind, Natural: r.roller.D20(), Modifier: modifier, Target: target}
	switch o.Natural {
	case 20:
		o.Success = true
	case 1:
		o.Success = false
	default:
		o.Success = o.Total() >= target
	}
	return o
}

func (r *Resolver) log(o Outcome) {
	r.logger.Debug("check resolved",
		zap.String("kind", string(o.Kind)),
		zap.Int("natural", o.Natural),
		zap.Int("modifier", o.Modifier),
		zap.Int("target", o.Target),
		zap.Bool("success", o.Success),
	)
}
