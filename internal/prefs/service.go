package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	redisclient "github.com/foodheaven/storefront-backend/pkg/redis"
)

// UI themes recognised by the storefront.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences holds the per-owner UI state the frontend re-applies on
// load: the colour theme and the profile tab last viewed.
type Preferences struct {
	Theme   string `json:"theme"`
	LastTab string `json:"last_tab"`
}

// UpdateInput carries a partial preferences change; nil fields are
// left untouched.
type UpdateInput struct {
	Theme   *string `json:"theme"`
	LastTab *string `json:"last_tab"`
}

type slotStore interface {
	GetSlot(ctx context.Context, slot, ownerID string) (string, error)
	SetSlot(ctx context.Context, slot, ownerID string, payload string) error
}

// Service reads and writes the preferences slot.
type Service struct {
	slots slotStore
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies needed to build a prefs service.
type ServiceParams struct {
	Slots  slotStore
	Logger *logger.Logger
}

// NewService constructs a preferences service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Slots == nil {
		return nil, fmt.Errorf("slot store is required")
	}
	return &Service{slots: params.Slots, logg: params.Logger}, nil
}

func defaults() Preferences {
	return Preferences{Theme: ThemeLight}
}

// Get returns the owner's stored preferences, falling back to defaults
// when nothing is stored yet.
func (s *Service) Get(ctx context.Context, ownerID string) (*Preferences, error) {
	prefs, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Update applies a partial change and persists the merged result.
func (s *Service) Update(ctx context.Context, ownerID string, input UpdateInput) (*Preferences, error) {
	if input.Theme != nil && *input.Theme != ThemeLight && *input.Theme != ThemeDark {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown theme")
	}

	prefs, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Theme != nil {
		prefs.Theme = *input.Theme
	}
	if input.LastTab != nil {
		prefs.LastTab = *input.LastTab
	}

	payload, err := json.Marshal(prefs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode preferences")
	}
	if err := s.slots.SetSlot(ctx, redisclient.SlotPrefs, ownerID, string(payload)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist preferences slot")
	}
	return &prefs, nil
}

func (s *Service) load(ctx context.Context, ownerID string) (Preferences, error) {
	if ownerID == "" {
		return Preferences{}, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	raw, err := s.slots.GetSlot(ctx, redisclient.SlotPrefs, ownerID)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return defaults(), nil
		}
		return Preferences{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences slot")
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithOwnerID(ctx, ownerID)
			s.logg.Warn(logCtx, "preferences slot corrupt, resetting")
		}
		return defaults(), nil
	}
	if prefs.Theme == "" {
		prefs.Theme = ThemeLight
	}
	return prefs, nil
}
