package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler lists ready, unassigned orders for drivers
// browsing open work. Oldest orders come first so they are not starved by
// newer, closer ones.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for open offer
// listings.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle executes the listing.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]AvailableOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			restaurant_id,
			address,
			delivery_fee,
			updated_at
		FROM orders
		WHERE status = ? AND driver_id IS NULL
		ORDER BY updated_at
	`, order.Ready.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AvailableOrderResponse, 0)
	for rows.Next() {
		var (
			resp         AvailableOrderResponse
			id           uuid.UUID
			restaurantID uuid.UUID
			addressJSON  []byte
			readySince   time.Time
		)

		if err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&restaurantID,
			&addressJSON,
			&resp.DeliveryFee,
			&readySince,
		); err != nil {
			return nil, err
		}

		if err = json.Unmarshal(addressJSON, &resp.Address); err != nil {
			return nil, err
		}

		resp.ID = id.String()
		resp.RestaurantID = restaurantID.String()
		resp.Earnings = resp.DeliveryFee * order.DriverEarningsShare / 100
		resp.ReadySince = readySince
		out = append(out, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
