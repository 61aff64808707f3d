// Package guard implements the constructor-guard pattern used by domain
// value objects and commands. Embedding a ConstructorGuard lets a type detect
// whether it was built through its designated constructor or left as a zero
// value, so invariants established in the constructor cannot be bypassed.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is supplied and the object was not constructed properly.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its constructor.
// The zero value fails validation; NewConstructorGuard passes it.
//
// Example:
//
//	type Command struct {
//	    orderNumber string
//	    guard       guard.ConstructorGuard
//	}
//
//	func NewCommand(orderNumber string) (Command, error) {
//	    if orderNumber == "" {
//	        return Command{}, errs.NewValueIsRequiredError("orderNumber")
//	    }
//	    return Command{orderNumber: orderNumber, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c Command) Validate() error {
//	    return c.guard.Validate(ErrCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking the enclosing object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the object was built through its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
