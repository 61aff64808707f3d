package commands

import (
	"context"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/ports"
)

// EventDriverLocation is pushed to an order's live feed while the driver is
// en route.
const EventDriverLocation = "driver:location"

// LocationPayload is the body of a driver:location event.
type LocationPayload struct {
	DriverID string    `json:"driverId"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	At       time.Time `json:"at"`
}

// UpdateDriverLocationCommandHandler records driver position reports and,
// while the driver carries an order, relays them to the order's live feed so
// the customer can watch the delivery approach.
type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
	publisher  ports.EventPublisher
}

// NewUpdateDriverLocationCommandHandler creates a handler for position
// reports.
func NewUpdateDriverLocationCommandHandler(
	uowFactory DriverUoWFactory,
	publisher ports.EventPublisher,
) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes one position report.
func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
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

	now := time.Now()
	if err = d.UpdateLocation(cmd.Coords(), now); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, d); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// The feed gets the position, minus the driver's own sessions: the
	// reporter already knows where they are.
	if d.CurrentOrder() != nil {
		h.publisher.PublishToGroupExcept(ports.OrderFeedGroup(*d.CurrentOrder()), d.ID(),
			ports.Notification{
				Event: EventDriverLocation,
				Payload: LocationPayload{
					DriverID: d.ID().String(),
					Lat:      cmd.Coords().Lat,
					Lng:      cmd.Coords().Lng,
					At:       now.UTC(),
				},
			})
	}

	return nil
}
