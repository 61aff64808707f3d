package commands

import (
	"context"
)

// SetDriverAvailabilityCommandHandler puts a driver on or off shift. Going
// offline is refused while the driver carries an active order.
type SetDriverAvailabilityCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewSetDriverAvailabilityCommandHandler creates a handler for availability
// toggles.
func NewSetDriverAvailabilityCommandHandler(uowFactory DriverUoWFactory) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one availability toggle.
func (h SetDriverAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetDriverAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	d, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if cmd.Online() {
		d.GoOnline()
	} else if err = d.GoOffline(); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
