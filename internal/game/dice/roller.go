package dice

import (
	"slices"

	"go.uber.org/zap"
)

// Roll rolls expr using src.
//
// Precondition: expr must come from Parse or satisfy its constraints.
func Roll(expr Expression, src Source) Result {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	r := Result{Expression: expr.String(), Dice: rolled, Modifier: expr.Modifier}
	if expr.KeepHighest == 0 {
		return r
	}
	order := make([]int, len(rolled))
	for i := range order {
		order[i] = i
	}
	// Stable so equal faces drop from the end of the roll.
	slices.SortStableFunc(order, func(a, b int) int { return rolled[b] - rolled[a] })
	keep := make([]bool, len(rolled))
	for _, i := range order[:expr.KeepHighest] {
		keep[i] = true
	}
	r.Dice = nil
	for i, face := range rolled {
		if keep[i] {
			r.Dice = append(r.Dice, face)
		} else {
			r.Dropped = append(r.Dropped, face)
		}
	}
	return r
}

// Roller rolls dice from a Source and logs every roll at Debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller. A nil logger disables logging.
//
// Precondition: src must not be nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Roll rolls expr and logs the result.
func (r *Roller) Roll(expr Expression) Result {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Ints("dropped", result.Dropped),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses and rolls expr.
func (r *Roller) RollExpr(expr string) (Result, error) {
	e, err := Parse(expr)
	if err != nil {
		return Result{}, err
	}
	return r.Roll(e), nil
}

// D20 rolls a single d20 and returns its face.
func (r *Roller) D20() int {
	return r.Roll(D20).Total()
}
