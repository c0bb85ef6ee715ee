package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/foodheaven/storefront-backend/pkg/db/models"
	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	Name           string                  `json:"name"`
	Phone          *string                 `json:"phone,omitempty"`
	Role           enums.UserRole          `json:"role"`
	IsActive       bool                    `json:"is_active"`
	Wishlist       []string                `json:"wishlist"`
	SavedAddresses types.DeliveryAddresses `json:"saved_addresses"`
	LastLoginAt    *time.Time              `json:"last_login_at,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
}

// UpdateProfileDTO carries the fields a signed-in customer may edit.
type UpdateProfileDTO struct {
	Name  *string
	Phone *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	wishlist := make([]string, len(u.Wishlist))
	copy(wishlist, u.Wishlist)

	addresses := u.SavedAddresses
	if addresses == nil {
		addresses = types.DeliveryAddresses{}
	}

	return &UserDTO{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		Role:           u.Role,
		IsActive:       u.IsActive,
		Wishlist:       wishlist,
		SavedAddresses: addresses,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// ToModel builds the persistence model. Role is always customer here; the
// column is never written again after creation.
func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:          c.Email,
		PasswordHash:   c.PasswordHash,
		Name:           c.Name,
		Phone:          c.Phone,
		Role:           enums.UserRoleCustomer,
		IsActive:       true,
		Wishlist:       pq.StringArray{},
		SavedAddresses: types.DeliveryAddresses{},
	}
}
