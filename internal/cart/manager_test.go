package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	menusvc "github.com/foodheaven/storefront-backend/internal/menu"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	redisclient "github.com/foodheaven/storefront-backend/pkg/redis"
)

type stubSlotStore struct {
	slots   map[string]string
	setErr  error
	getErr  error
	setCall int
}

func newStubSlotStore() *stubSlotStore {
	return &stubSlotStore{slots: map[string]string{}}
}

func (s *stubSlotStore) key(slot, ownerID string) string {
	return slot + ":" + ownerID
}

func (s *stubSlotStore) GetSlot(ctx context.Context, slot, ownerID string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.slots[s.key(slot, ownerID)]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return value, nil
}

func (s *stubSlotStore) SetSlot(ctx context.Context, slot, ownerID string, payload string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.setCall++
	s.slots[s.key(slot, ownerID)] = payload
	return nil
}

func (s *stubSlotStore) DelSlot(ctx context.Context, slot, ownerID string) error {
	delete(s.slots, s.key(slot, ownerID))
	return nil
}

type stubCatalog struct {
	items map[uuid.UUID]menusvc.ItemDTO
}

func (s *stubCatalog) Lookup(id uuid.UUID) (menusvc.ItemDTO, bool) {
	item, ok := s.items[id]
	return item, ok
}

func catalogWith(items ...menusvc.ItemDTO) *stubCatalog {
	m := map[uuid.UUID]menusvc.ItemDTO{}
	for _, item := range items {
		m[item.ID] = item
	}
	return &stubCatalog{items: m}
}

func availableItem(name string, price int64) menusvc.ItemDTO {
	return menusvc.ItemDTO{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.NewFromInt(price),
		IsAvailable: true,
	}
}

func newTestManager(t *testing.T, slots *stubSlotStore, catalog *stubCatalog) *Manager {
	t.Helper()
	mgr, err := NewManager(ManagerParams{Slots: slots, Menu: catalog})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func TestAddSnapshotsItemAndPersists(t *testing.T) {
	slots := newStubSlotStore()
	item := availableItem("Chicken Biryani", 180)
	mgr := newTestManager(t, slots, catalogWith(item))

	dto, err := mgr.Add(context.Background(), "owner-1", item.ID, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if dto.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", dto.TotalItems)
	}
	if !dto.TotalPrice.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("expected total 360, got %s", dto.TotalPrice)
	}
	if dto.Lines[0].Name != "Chicken Biryani" {
		t.Fatalf("expected snapshot name, got %q", dto.Lines[0].Name)
	}
	if dto.Lines[0].ImageURL != defaultItemImage {
		t.Fatalf("expected placeholder image, got %q", dto.Lines[0].ImageURL)
	}
	if slots.setCall == 0 {
		t.Fatal("expected cart slot persisted after mutation")
	}
}

func TestAddExistingLineIncrementsQuantity(t *testing.T) {
	slots := newStubSlotStore()
	item := availableItem("Veg Pizza", 150)
	mgr := newTestManager(t, slots, catalogWith(item))
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "owner-1", item.ID, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	dto, err := mgr.Add(ctx, "owner-1", item.ID, 3)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected single line, got %d", len(dto.Lines))
	}
	if dto.Lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", dto.Lines[0].Quantity)
	}
}

func TestAddRejectsInvalidPriceWithoutStateChange(t *testing.T) {
	slots := newStubSlotStore()
	bad := menusvc.ItemDTO{ID: uuid.New(), Name: "Broken", Price: decimal.Zero, IsAvailable: true}
	mgr := newTestManager(t, slots, catalogWith(bad))

	_, err := mgr.Add(context.Background(), "owner-1", bad.ID, 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if slots.setCall != 0 {
		t.Fatal("expected no slot write on rejected add")
	}
}

func TestAddUnknownItemIsNotFound(t *testing.T) {
	mgr := newTestManager(t, newStubSlotStore(), catalogWith())

	_, err := mgr.Add(context.Background(), "owner-1", uuid.New(), 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveFloorsAtDeletion(t *testing.T) {
	slots := newStubSlotStore()
	item := availableItem("Hakka Noodles", 120)
	mgr := newTestManager(t, slots, catalogWith(item))
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "owner-1", item.ID, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	dto, err := mgr.Remove(ctx, "owner-1", item.ID, 5)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected line deleted, got %v", dto.Lines)
	}

	// Removing an absent item is a no-op, not an error.
	dto, err = mgr.Remove(ctx, "owner-1", item.ID, 1)
	if err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	if dto.TotalItems != 0 {
		t.Fatalf("expected empty cart, got %d items", dto.TotalItems)
	}
}

func TestRemoveDecrementsQuantity(t *testing.T) {
	slots := newStubSlotStore()
	item := availableItem("Cold Coffee", 60)
	mgr := newTestManager(t, slots, catalogWith(item))
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "owner-1", item.ID, 3); err != nil {
		t.Fatalf("Add: %v", err)
	}
	dto, err := mgr.Remove(ctx, "owner-1", item.ID, 1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if dto.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", dto.Lines[0].Quantity)
	}
}

func TestQuantityInvariantAfterMutations(t *testing.T) {
	slots := newStubSlotStore()
	first := availableItem("Cake Slice", 90)
	second := availableItem("Ice Cream", 70)
	mgr := newTestManager(t, slots, catalogWith(first, second))
	ctx := context.Background()

	_, _ = mgr.Add(ctx, "owner-1", first.ID, 2)
	_, _ = mgr.Add(ctx, "owner-1", second.ID, 1)
	dto, err := mgr.Remove(ctx, "owner-1", first.ID, 1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	for _, line := range dto.Lines {
		if line.Quantity <= 0 {
			t.Fatalf("line %s stored with non-positive quantity %d", line.Name, line.Quantity)
		}
	}

	state, err := mgr.State(ctx, "owner-1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.ItemQuantity(first.ID) != 1 || state.ItemQuantity(second.ID) != 1 {
		t.Fatalf("unexpected quantities: %v", state.Lines)
	}
}

func TestClearDropsSlot(t *testing.T) {
	slots := newStubSlotStore()
	item := availableItem("Tiffin Combo", 110)
	mgr := newTestManager(t, slots, catalogWith(item))
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "owner-1", item.ID, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := mgr.Clear(ctx, "owner-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	dto, err := mgr.Get(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.TotalItems != 0 {
		t.Fatalf("expected empty cart after clear, got %d", dto.TotalItems)
	}
}

func TestCorruptSlotResetsCleanly(t *testing.T) {
	slots := newStubSlotStore()
	slots.slots["cart:owner-1"] = "{not json"
	item := availableItem("Paneer Pizza", 160)
	mgr := newTestManager(t, slots, catalogWith(item))

	dto, err := mgr.Get(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.TotalItems != 0 {
		t.Fatalf("expected fresh cart, got %d items", dto.TotalItems)
	}
}
