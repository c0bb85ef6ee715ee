package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/types"
)

// User represents the canonical identity entity. Wishlist holds the ids
// of saved menu items; it is replaced wholesale, never merged.
type User struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string                  `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   string                  `gorm:"column:password_hash;not null"`
	Name           string                  `gorm:"column:name;not null"`
	Phone          *string                 `gorm:"column:phone"`
	Role           enums.UserRole          `gorm:"column:role;type:text;not null;default:'customer'"`
	IsActive       bool                    `gorm:"column:is_active;not null;default:true"`
	Wishlist       pq.StringArray          `gorm:"column:wishlist;type:text[];not null;default:ARRAY[]::text[]"`
	SavedAddresses types.DeliveryAddresses `gorm:"column:saved_addresses;type:jsonb;serializer:json"`
	LastLoginAt    *time.Time              `gorm:"column:last_login_at"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
