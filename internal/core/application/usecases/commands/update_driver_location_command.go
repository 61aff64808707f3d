package commands

import (
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand is one position report from a driver's device.
type UpdateDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	coords   kernel.Coordinates

	guard guard.ConstructorGuard
}

// NewUpdateDriverLocationCommand creates a position report.
func NewUpdateDriverLocationCommand(driverID kernel.UUID, coords kernel.Coordinates) (UpdateDriverLocationCommand, error) {
	if err := errors.Join(driverID.Validate(), coords.Validate()); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return UpdateDriverLocationCommand{
		driverID: driverID,
		coords:   coords,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

// DriverID returns the reporting driver.
func (c UpdateDriverLocationCommand) DriverID() kernel.UUID { return c.driverID }

// Coords returns the reported position.
func (c UpdateDriverLocationCommand) Coords() kernel.Coordinates { return c.coords }
