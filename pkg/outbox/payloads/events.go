package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/enums"
)

// OrderPlacedEvent signals that checkout committed a new order.
type OrderPlacedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	CustomerName  string              `json:"customer_name"`
	ServiceType   enums.ServiceType   `json:"service_type"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Total         decimal.Decimal     `json:"total"`
	ItemCount     int                 `json:"item_count"`
	PlacedAt      time.Time           `json:"placed_at"`
}

// OrderStatusChangedEvent reports a back-office status transition.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID         `json:"order_id"`
	From      enums.OrderStatus `json:"from"`
	To        enums.OrderStatus `json:"to"`
	UpdatedBy string            `json:"updated_by"`
	ChangedAt time.Time         `json:"changed_at"`
}
