package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler serves order tracking lookups straight from the
// store, bypassing the aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for tracking lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle fetches the order view for one order number. Returns
// errs.ObjectNotFoundError when the number is unknown.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			customer_id,
			restaurant_id,
			driver_id,
			status,
			items,
			address,
			delivery_fee,
			tax,
			discount,
			final_amount,
			history,
			restaurant_rating,
			driver_rating,
			created_at
		FROM orders
		WHERE order_number = ?
	`, query.OrderNumber()).Row()

	var (
		resp             GetOrderQueryResponse
		id               uuid.UUID
		customerID       uuid.UUID
		restaurantID     uuid.UUID
		driverID         sql.Null[uuid.UUID]
		itemsJSON        []byte
		addressJSON      []byte
		historyJSON      []byte
		restaurantRating []byte
		driverRating     []byte
		createdAt        time.Time
	)

	err := row.Scan(
		&id,
		&resp.OrderNumber,
		&customerID,
		&restaurantID,
		&driverID,
		&resp.Status,
		&itemsJSON,
		&addressJSON,
		&resp.DeliveryFee,
		&resp.Tax,
		&resp.Discount,
		&resp.FinalAmount,
		&historyJSON,
		&restaurantRating,
		&driverRating,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderNumber", query.OrderNumber())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID = id.String()
	resp.CustomerID = customerID.String()
	resp.RestaurantID = restaurantID.String()
	resp.CreatedAt = createdAt
	if driverID.Valid {
		s := driverID.V.String()
		resp.DriverID = &s
	}

	if err = json.Unmarshal(itemsJSON, &resp.Items); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = json.Unmarshal(addressJSON, &resp.Address); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = json.Unmarshal(historyJSON, &resp.History); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if len(restaurantRating) > 0 {
		if err = json.Unmarshal(restaurantRating, &resp.RestaurantRating); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}
	if len(driverRating) > 0 {
		if err = json.Unmarshal(driverRating, &resp.DriverRating); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}

	for _, item := range resp.Items {
		resp.Subtotal += item.UnitPrice * int64(item.Quantity)
	}

	return resp, nil
}
