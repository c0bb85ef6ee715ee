package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/enums"
)

// MenuItem is the canonical catalog row the storefront cache reads from.
type MenuItem struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string             `gorm:"column:name;not null"`
	Description *string            `gorm:"column:description"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null"`
	Category    enums.MenuCategory `gorm:"column:category;type:text;not null"`
	ImageURL    *string            `gorm:"column:image_url"`
	IsNew       bool               `gorm:"column:is_new;not null;default:false"`
	IsAvailable bool               `gorm:"column:is_available;not null;default:true"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
