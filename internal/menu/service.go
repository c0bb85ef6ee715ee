package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodheaven/storefront-backend/pkg/db/models"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
)

// Service exposes the storefront menu plus the admin catalog operations.
type Service interface {
	Menu(ctx context.Context, refresh bool) (*MenuDTO, error)
	Refresh(ctx context.Context) error
	Lookup(id uuid.UUID) (ItemDTO, bool)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	CreateItem(ctx context.Context, dto CreateItemDTO) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, dto UpdateItemDTO) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type itemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  itemRepository
	cache *Cache
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build a menu service.
type ServiceParams struct {
	Repo   itemRepository
	Cache  *Cache
	Logger *logger.Logger
}

// NewService constructs a menu service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("menu repository is required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("menu cache is required")
	}
	return &service{
		repo:  params.Repo,
		cache: params.Cache,
		logg:  params.Logger,
	}, nil
}

// Menu returns the cached catalog grouped by category, loading it from
// the database on first use or when a refresh is requested.
func (s *service) Menu(ctx context.Context, refresh bool) (*MenuDTO, error) {
	if refresh || !s.cache.Loaded() {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	dto := &MenuDTO{
		Categories: s.cache.ByCategory(),
		ItemCount:  s.cache.Len(),
	}
	dto.Empty = dto.ItemCount == 0
	if at, ok := s.cache.LoadedAt(); ok {
		dto.LoadedAt = &at
	}
	return dto, nil
}

// Refresh reloads the cache wholesale from the database.
func (s *service) Refresh(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu items")
	}
	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	s.cache.Reload(items)
	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "item_count", len(items))
		s.logg.Info(logCtx, "menu cache reloaded")
	}
	return nil
}

// Lookup reads one item from the cache without touching the database.
func (s *service) Lookup(id uuid.UUID) (ItemDTO, bool) {
	return s.cache.Get(id)
}

// GetItem loads one item from the database, bypassing the cache. The
// admin edit form reads through this so it always sees current values.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	dto := FromModel(item)
	return &dto, nil
}

// CreateItem inserts a catalog row and refreshes the cache.
func (s *service) CreateItem(ctx context.Context, dto CreateItemDTO) (*ItemDTO, error) {
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if !dto.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must be positive")
	}
	if !dto.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid menu category")
	}

	item, err := s.repo.Create(ctx, dto.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	created := FromModel(item)
	return &created, nil
}

// UpdateItem applies the provided edits. An update against an item that
// has been deleted in the meantime is a silent no-op.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, dto UpdateItemDTO) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	updates := map[string]any{}
	if dto.Name != nil {
		if *dto.Name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "item name must not be empty")
		}
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Price != nil {
		if !dto.Price.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price must be positive")
		}
		updates["price"] = *dto.Price
	}
	if dto.Category != nil {
		if !dto.Category.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid menu category")
		}
		updates["category"] = *dto.Category
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.IsNew != nil {
		updates["is_new"] = *dto.IsNew
	}
	if dto.IsAvailable != nil {
		updates["is_available"] = *dto.IsAvailable
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no updates provided")
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	if affected == 0 {
		if s.logg != nil {
			logCtx := s.logg.WithField(ctx, "item_id", id.String())
			s.logg.Warn(logCtx, "menu item vanished before update")
		}
		return nil
	}
	return s.Refresh(ctx)
}

// DeleteItem removes a catalog row and refreshes the cache.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	return s.Refresh(ctx)
}
