package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/foodheaven/storefront-backend/pkg/db/models"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	"github.com/foodheaven/storefront-backend/pkg/metrics"
	redisclient "github.com/foodheaven/storefront-backend/pkg/redis"
)

type slotStore interface {
	GetSlot(ctx context.Context, slot, ownerID string) (string, error)
	SetSlot(ctx context.Context, slot, ownerID string, payload string) error
}

type profileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateWishlist(ctx context.Context, id uuid.UUID, itemIDs []string) error
}

// Service keeps the wishlist slot authoritative mid-session and mirrors
// it into the user profile on a best-effort basis. The remote write is
// never allowed to fail a toggle; its outcome is observable through the
// log and the sync metrics only.
type Service struct {
	slots   slotStore
	profile profileStore
	metrics *metrics.WishlistSyncMetrics
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies needed to build a wishlist service.
type ServiceParams struct {
	Slots   slotStore
	Profile profileStore
	Metrics *metrics.WishlistSyncMetrics
	Logger  *logger.Logger
}

// NewService constructs a wishlist service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Slots == nil {
		return nil, fmt.Errorf("slot store is required")
	}
	if params.Profile == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	return &Service{
		slots:   params.Slots,
		profile: params.Profile,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// List returns the owner's saved item ids, sorted for stable output.
func (s *Service) List(ctx context.Context, ownerID string) ([]string, error) {
	set, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return sortedIDs(set), nil
}

// IsSaved reports whether the item is in the owner's wishlist.
func (s *Service) IsSaved(ctx context.Context, ownerID, itemID string) (bool, error) {
	set, err := s.load(ctx, ownerID)
	if err != nil {
		return false, err
	}
	_, saved := set[itemID]
	return saved, nil
}

// Toggle flips the item's membership. The local slot write is the
// authoritative outcome; when the owner is a signed-in user the profile
// column is mirrored best-effort afterwards.
func (s *Service) Toggle(ctx context.Context, ownerID string, userID *uuid.UUID, itemID string) (bool, []string, error) {
	if itemID == "" {
		return false, nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	set, err := s.load(ctx, ownerID)
	if err != nil {
		return false, nil, err
	}

	_, present := set[itemID]
	if present {
		delete(set, itemID)
	} else {
		set[itemID] = struct{}{}
	}

	ids := sortedIDs(set)
	if err := s.persist(ctx, ownerID, ids); err != nil {
		return false, nil, err
	}

	if userID != nil && *userID != uuid.Nil {
		s.mirrorRemote(ctx, *userID, ids)
	}

	return !present, ids, nil
}

// SyncFromRemote pulls the profile wishlist at login and replaces the
// local slot wholesale (remote wins), including when the profile list
// is empty. A fetch failure leaves the local slot untouched.
func (s *Service) SyncFromRemote(ctx context.Context, ownerID string, userID uuid.UUID) ([]string, error) {
	if ownerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := s.profile.FindByID(ctx, userID)
	if err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithUserID(ctx, userID.String())
			s.logg.Warn(logCtx, "wishlist remote fetch failed, keeping local")
		}
		return s.List(ctx, ownerID)
	}

	// The wishlist column is NOT NULL with an empty-array default, so a
	// fetched profile is always authoritative. An empty remote list must
	// clear the local slot or a later toggle would mirror stale ids back.
	remote := make([]string, len(user.Wishlist))
	copy(remote, user.Wishlist)
	sort.Strings(remote)

	if err := s.persist(ctx, ownerID, remote); err != nil {
		return nil, err
	}
	return remote, nil
}

func (s *Service) mirrorRemote(ctx context.Context, userID uuid.UUID, ids []string) {
	err := s.profile.UpdateWishlist(ctx, userID, ids)
	if err != nil {
		s.metrics.IncFailure()
		if s.logg != nil {
			logCtx := s.logg.WithUserID(ctx, userID.String())
			logCtx = s.logg.WithField(logCtx, "wishlist_size", len(ids))
			s.logg.Warn(logCtx, "wishlist remote write failed")
		}
		return
	}
	s.metrics.IncSuccess()
}

func (s *Service) load(ctx context.Context, ownerID string) (map[string]struct{}, error) {
	if ownerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	raw, err := s.slots.GetSlot(ctx, redisclient.SlotWishlist, ownerID)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return map[string]struct{}{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist slot")
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithOwnerID(ctx, ownerID)
			s.logg.Warn(logCtx, "wishlist slot corrupt, resetting")
		}
		return map[string]struct{}{}, nil
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

func (s *Service) persist(ctx context.Context, ownerID string, ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wishlist")
	}
	if err := s.slots.SetSlot(ctx, redisclient.SlotWishlist, ownerID, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist wishlist slot")
	}
	return nil
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
