package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/db/models"
	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/types"
)

// LineItemDTO is the transport shape of one snapshotted order line.
type LineItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	ImageURL  *string         `json:"image_url,omitempty"`
}

// OrderDTO is the transport shape of a placed order.
type OrderDTO struct {
	ID             uuid.UUID              `json:"id"`
	UserID         *uuid.UUID             `json:"user_id,omitempty"`
	GuestID        *string                `json:"guest_id,omitempty"`
	CustomerName   string                 `json:"customer_name"`
	CustomerEmail  string                 `json:"customer_email"`
	CustomerPhone  string                 `json:"customer_phone"`
	Address        *types.DeliveryAddress `json:"address,omitempty"`
	ServiceType    enums.ServiceType      `json:"service_type"`
	PaymentMethod  enums.PaymentMethod    `json:"payment_method"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DeliveryCharge decimal.Decimal        `json:"delivery_charge"`
	Tax            decimal.Decimal        `json:"tax"`
	Total          decimal.Decimal        `json:"total"`
	Status         enums.OrderStatus      `json:"status"`
	UpdatedBy      *string                `json:"updated_by,omitempty"`
	Items          []LineItemDTO          `json:"items"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	items := make([]LineItemDTO, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, lineItemFromModel(&o.Items[i]))
	}

	return &OrderDTO{
		ID:             o.ID,
		UserID:         o.UserID,
		GuestID:        o.GuestID,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		Address:        o.Address,
		ServiceType:    o.ServiceType,
		PaymentMethod:  o.PaymentMethod,
		Subtotal:       o.Subtotal,
		DeliveryCharge: o.DeliveryCharge,
		Tax:            o.Tax,
		Total:          o.Total,
		Status:         o.Status,
		UpdatedBy:      o.UpdatedBy,
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func lineItemFromModel(li *models.OrderLineItem) LineItemDTO {
	return LineItemDTO{
		ID:        li.ID,
		ItemID:    li.ItemID,
		Name:      li.Name,
		UnitPrice: li.UnitPrice,
		Quantity:  li.Quantity,
		LineTotal: li.LineTotal,
		ImageURL:  li.ImageURL,
	}
}
