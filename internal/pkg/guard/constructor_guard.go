// Package guard provides a defensive construction check for value objects
// and entities. Embedding a ConstructorGuard in a struct makes zero-value
// instances distinguishable from instances created through their designated
// constructor, so validation can reject objects that bypassed construction.
package guard

import "errors"

// ErrNotConstructed is the fallback error returned by Validate when the
// caller does not supply a more specific one.
var ErrNotConstructed = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. The zero value
// fails validation; a guard obtained from NewConstructorGuard passes.
//
// Example:
//
//	type Stop struct {
//	    jobID kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func NewStop(jobID kernel.UUID) Stop {
//	    return Stop{jobID: jobID, guard: guard.NewConstructorGuard()}
//	}
//
//	func (s Stop) Validate() error {
//	    return s.guard.Validate(ErrStopIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its holder as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns notConstructedErr, or ErrNotConstructed when notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.isConstructed {
		return nil
	}

	if notConstructedErr == nil {
		return ErrNotConstructed
	}

	return notConstructedErr
}
