package condition

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

// Active tracks one applied condition.
type Active struct {
	Def             *Definition
	Stacks          int
	RoundsRemaining int // -1 = permanent
}

// ActiveSet tracks the conditions applied to one character. Each condition's
// penalties are registered on the character once and read the current stack
// count, so removing or expiring a condition lifts its penalties.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	target     *character.Character
	conditions map[string]*Active
	hooked     map[string]bool
	logger     *zap.Logger
}

// NewActiveSet creates an empty ActiveSet for c. A nil logger disables logging.
//
// Precondition: c must not be nil.
func NewActiveSet(c *character.Character, logger *zap.Logger) (*ActiveSet, error) {
	if c == nil {
		return nil, rpgerr.InvalidArgument("condition: character must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActiveSet{
		target:     c,
		conditions: make(map[string]*Active),
		hooked:     make(map[string]bool),
		logger:     logger,
	}, nil
}

// Apply adds or updates a condition.
// If the condition is already present, stacks are incremented (capped at MaxStacks).
// If MaxStacks == 0 (unstackable), stacks is always stored as 1.
// rounds is ignored unless def is timed; use -1 for an open-ended timed condition.
//
// Precondition: def must not be nil; stacks must be >= 1.
// Postcondition: Has(def.ID) is true; on error the set and the character are unchanged.
func (s *ActiveSet) Apply(def *Definition, stacks, rounds int) error {
	if def == nil {
		return rpgerr.InvalidArgument("condition: definition must not be nil")
	}
	if stacks < 1 {
		return rpgerr.InvalidArgumentf("condition %q: stacks must be >= 1, got %d", def.ID, stacks)
	}
	if err := s.hook(def); err != nil {
		return err
	}
	if !def.Timed() {
		rounds = -1
	}

	if existing, ok := s.conditions[def.ID]; ok {
		existing.Stacks = capStacks(def, existing.Stacks+stacks)
		if rounds < 0 || (existing.RoundsRemaining >= 0 && rounds > existing.RoundsRemaining) {
			existing.RoundsRemaining = rounds
		}
		return nil
	}
	s.conditions[def.ID] = &Active{
		Def:             def,
		Stacks:          capStacks(def, stacks),
		RoundsRemaining: rounds,
	}
	s.logger.Debug("condition applied",
		zap.String("character", s.target.Name),
		zap.String("condition", def.ID),
		zap.Int("stacks", s.conditions[def.ID].Stacks),
		zap.Int("rounds", rounds),
	)
	return nil
}

func capStacks(def *Definition, stacks int) int {
	if def.MaxStacks == 0 {
		return 1
	}
	return min(stacks, def.MaxStacks)
}

// hook registers def's penalties on the character the first time def is applied.
func (s *ActiveSet) hook(def *Definition) error {
	if s.hooked[def.ID] {
		return nil
	}
	trackers := make([]*modifier.Tracker, len(def.Penalties))
	for i, p := range def.Penalties {
		t, err := s.target.Tracker(p.Target)
		if err != nil {
			return rpgerr.Wrapf(err, "condition %q", def.ID)
		}
		trackers[i] = t
	}
	id := def.ID
	for i, p := range def.Penalties {
		amount := int(p.Amount)
		if err := trackers[i].AddFunc(func() uint8 {
			return modifier.Clamp(amount * s.Stacks(id))
		}); err != nil {
			return fmt.Errorf("condition %q: %w", id, err)
		}
	}
	s.hooked[id] = true
	return nil
}

// Remove deletes the condition with the given ID from the set.
// If the condition is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Tick decrements the rounds remaining of every timed condition by 1.
// Conditions that reach 0 are removed and returned, sorted by ID.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for id, ac := range s.conditions {
		if ac.RoundsRemaining < 0 {
			continue
		}
		ac.RoundsRemaining--
		if ac.RoundsRemaining <= 0 {
			expired = append(expired, id)
			delete(s.conditions, id)
		}
	}
	sort.Strings(expired)
	return expired
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the current stack count for condition id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.Stacks
	}
	return 0
}

// All returns copies of the active conditions sorted by ID.
func (s *ActiveSet) All() []Active {
	out := make([]Active, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, *ac)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}

// Labels returns the display name of each active condition, sorted by ID.
// Stacked conditions carry their count, e.g. "negative level (2)".
func (s *ActiveSet) Labels() []string {
	all := s.All()
	out := make([]string, len(all))
	for i, ac := range all {
		out[i] = ac.Def.Name
		if ac.Stacks > 1 {
			out[i] = fmt.Sprintf("%s (%d)", ac.Def.Name, ac.Stacks)
		}
	}
	return out
}
