package commands

import (
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var ErrSetDriverAvailabilityCommandIsNotConstructed = errors.New(
	"SetDriverAvailabilityCommand must be created via NewSetDriverAvailabilityCommand constructor",
)

// SetDriverAvailabilityCommand toggles a driver's presence in the
// assignment pool.
type SetDriverAvailabilityCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	online   bool

	guard guard.ConstructorGuard
}

// NewSetDriverAvailabilityCommand creates an availability toggle.
func NewSetDriverAvailabilityCommand(driverID kernel.UUID, online bool) (SetDriverAvailabilityCommand, error) {
	if err := driverID.Validate(); err != nil {
		return SetDriverAvailabilityCommand{}, err
	}

	return SetDriverAvailabilityCommand{
		driverID: driverID,
		online:   online,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDriverAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverAvailabilityCommandIsNotConstructed)
}

// DriverID returns the driver to toggle.
func (c SetDriverAvailabilityCommand) DriverID() kernel.UUID { return c.driverID }

// Online reports the requested availability.
func (c SetDriverAvailabilityCommand) Online() bool { return c.online }
