package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/types"
)

// Order is the immutable record produced by checkout. Status is the only
// field the back office mutates afterwards; everything else is a snapshot
// taken at placement time.
type Order struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         *uuid.UUID             `gorm:"column:user_id;type:uuid;index"`
	GuestID        *string                `gorm:"column:guest_id;index"`
	CustomerName   string                 `gorm:"column:customer_name;not null"`
	CustomerEmail  string                 `gorm:"column:customer_email;not null"`
	CustomerPhone  string                 `gorm:"column:customer_phone;not null"`
	Address        *types.DeliveryAddress `gorm:"column:address;type:jsonb;serializer:json"`
	ServiceType    enums.ServiceType      `gorm:"column:service_type;type:text;not null"`
	PaymentMethod  enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null"`
	Subtotal       decimal.Decimal        `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryCharge decimal.Decimal        `gorm:"column:delivery_charge;type:numeric(10,2);not null"`
	Tax            decimal.Decimal        `gorm:"column:tax;type:numeric(10,2);not null"`
	Total          decimal.Decimal        `gorm:"column:total;type:numeric(10,2);not null"`
	Status         enums.OrderStatus      `gorm:"column:status;type:text;not null;default:'new'"`
	UpdatedBy      *string                `gorm:"column:updated_by"`
	Items          []OrderLineItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
