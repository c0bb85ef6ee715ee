package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	menusvc "github.com/foodheaven/storefront-backend/internal/menu"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	redisclient "github.com/foodheaven/storefront-backend/pkg/redis"
)

type slotStore interface {
	GetSlot(ctx context.Context, slot, ownerID string) (string, error)
	SetSlot(ctx context.Context, slot, ownerID string, payload string) error
	DelSlot(ctx context.Context, slot, ownerID string) error
}

type menuCatalog interface {
	Lookup(id uuid.UUID) (menusvc.ItemDTO, bool)
}

// Manager owns the per-owner cart state. Every operation loads the slot,
// mutates in memory, and persists the result; the slot is the single
// source of truth between requests.
type Manager struct {
	slots slotStore
	menu  menuCatalog
	logg  *logger.Logger
}

// ManagerParams bundles the dependencies needed to build a cart manager.
type ManagerParams struct {
	Slots  slotStore
	Menu   menuCatalog
	Logger *logger.Logger
}

// NewManager constructs a cart manager.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Slots == nil {
		return nil, fmt.Errorf("slot store is required")
	}
	if params.Menu == nil {
		return nil, fmt.Errorf("menu catalog is required")
	}
	return &Manager{
		slots: params.Slots,
		menu:  params.Menu,
		logg:  params.Logger,
	}, nil
}

// Get returns the owner's cart with aggregates.
func (m *Manager) Get(ctx context.Context, ownerID string) (*CartDTO, error) {
	state, err := m.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toDTO(state), nil
}

// State returns the raw cart state for downstream consumers (checkout).
func (m *Manager) State(ctx context.Context, ownerID string) (State, error) {
	return m.load(ctx, ownerID)
}

// Add puts quantity units of the item into the cart, snapshotting its
// name, price, and image. Items without a positive price are rejected
// without touching stored state.
func (m *Manager) Add(ctx context.Context, ownerID string, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	item, ok := m.menu.Lookup(itemID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	if !item.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item has no valid price")
	}
	if !item.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is not available")
	}

	state, err := m.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if idx := state.lineIndex(itemID); idx >= 0 {
		state.Lines[idx].Quantity += quantity
	} else {
		image := defaultItemImage
		if item.ImageURL != nil && *item.ImageURL != "" {
			image = *item.ImageURL
		}
		state.Lines = append(state.Lines, Line{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  quantity,
			ImageURL:  image,
		})
	}

	if err := m.persist(ctx, ownerID, state); err != nil {
		return nil, err
	}
	return toDTO(state), nil
}

// Remove decrements the item by quantity, deleting the line when it
// reaches zero. Removing an absent item is a no-op.
func (m *Manager) Remove(ctx context.Context, ownerID string, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	state, err := m.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	idx := state.lineIndex(itemID)
	if idx < 0 {
		return toDTO(state), nil
	}

	state.Lines[idx].Quantity -= quantity
	if state.Lines[idx].Quantity <= 0 {
		state.Lines = append(state.Lines[:idx], state.Lines[idx+1:]...)
	}

	if err := m.persist(ctx, ownerID, state); err != nil {
		return nil, err
	}
	return toDTO(state), nil
}

// Clear drops the owner's cart slot entirely.
func (m *Manager) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if err := m.slots.DelSlot(ctx, redisclient.SlotCart, ownerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart slot")
	}
	return nil
}

func (m *Manager) load(ctx context.Context, ownerID string) (State, error) {
	if ownerID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	raw, err := m.slots.GetSlot(ctx, redisclient.SlotCart, ownerID)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return State{}, nil
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart slot")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt slot is unrecoverable; start the owner fresh
		// rather than failing every cart call.
		if m.logg != nil {
			logCtx := m.logg.WithOwnerID(ctx, ownerID)
			m.logg.Warn(logCtx, "cart slot corrupt, resetting")
		}
		return State{}, nil
	}
	return state, nil
}

func (m *Manager) persist(ctx context.Context, ownerID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart state")
	}
	if err := m.slots.SetSlot(ctx, redisclient.SlotCart, ownerID, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart slot")
	}
	return nil
}
