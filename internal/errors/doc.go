// Package errors provides the failure taxonomy of the statistics engine.
//
// Every failure is a precondition violation reported synchronously to the caller:
//
//   - InvalidArgument: a required reference (character, ability score, shared attack
//     bonus, calculation, enchantment) is nil.
//   - InvalidState: the operation is illegal in the receiver's current state, such as
//     enchanting an item before it carries an enhancement bonus.
//   - NotSupported: the input is well formed but outside the rules the engine models,
//     such as a size category without a defined modifier.
//
// Arithmetic never fails. Totals clamp into their documented ranges instead.
//
// Creating and checking errors:
//
//	err := errors.InvalidArgumentf("ability score %q is unknown", name)
//	if errors.IsInvalidArgument(err) {
//	    // ...
//	}
//
// Because (*Error).Is compares codes, a zero-message error works as a target:
//
//	stderrors.Is(err, errors.InvalidState(""))
package errors
