package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/db/models"
	"github.com/foodheaven/storefront-backend/pkg/enums"
)

// ItemDTO is the transport shape of one menu item.
type ItemDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Price       decimal.Decimal    `json:"price"`
	Category    enums.MenuCategory `json:"category"`
	ImageURL    *string            `json:"image_url,omitempty"`
	IsNew       bool               `json:"is_new"`
	IsAvailable bool               `json:"is_available"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// MenuDTO groups the cache contents for rendering.
type MenuDTO struct {
	Categories map[enums.MenuCategory][]ItemDTO `json:"categories"`
	ItemCount  int                              `json:"item_count"`
	Empty      bool                             `json:"empty"`
	LoadedAt   *time.Time                       `json:"loaded_at,omitempty"`
}

// CreateItemDTO carries the fields the admin panel submits for a new item.
type CreateItemDTO struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    enums.MenuCategory
	ImageURL    *string
	IsNew       bool
	IsAvailable *bool
}

// UpdateItemDTO carries the admin-editable fields; nil means unchanged.
type UpdateItemDTO struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *enums.MenuCategory
	ImageURL    *string
	IsNew       *bool
	IsAvailable *bool
}

func FromModel(m *models.MenuItem) ItemDTO {
	if m == nil {
		return ItemDTO{}
	}
	return ItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		IsNew:       m.IsNew,
		IsAvailable: m.IsAvailable,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (c CreateItemDTO) ToModel() *models.MenuItem {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}
	return &models.MenuItem{
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Category:    c.Category,
		ImageURL:    c.ImageURL,
		IsNew:       c.IsNew,
		IsAvailable: available,
	}
}
