package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodheaven/storefront-backend/pkg/db/models"
	"github.com/foodheaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/outbox"
)

type stubOrdersRepo struct {
	order         *models.Order
	updatedStatus enums.OrderStatus
	updatedBy     string
	updateCalls   int
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) List(ctx context.Context) ([]models.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if s.order == nil || s.order.UserID == nil || *s.order.UserID != userID {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, updatedBy string) error {
	s.updateCalls++
	s.updatedStatus = status
	s.updatedBy = updatedBy
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestOrdersService(t *testing.T, repo Repository, box *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Tx: stubTxRunner{}, Outbox: box})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestUpdateStatusAdvancesAndEmitsEvent(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{ID: orderID, Status: enums.OrderStatusNew}}
	box := &stubOutbox{}
	svc := newTestOrdersService(t, repo, box)

	dto, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID:    orderID,
		Target:     enums.OrderStatusProcessing,
		ActorID:    uuid.New(),
		ActorEmail: "ops@foodheaven.test",
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if dto.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", dto.Status)
	}
	if repo.updatedStatus != enums.OrderStatusProcessing {
		t.Fatalf("expected repo update to processing, got %s", repo.updatedStatus)
	}
	if repo.updatedBy != "ops@foodheaven.test" {
		t.Fatalf("expected audit stamp, got %q", repo.updatedBy)
	}
	if len(box.events) != 1 || box.events[0].EventType != enums.EventOrderStatusChanged {
		t.Fatalf("expected status changed event, got %v", box.events)
	}
	if box.events[0].AggregateID != orderID {
		t.Fatalf("expected aggregate id %s, got %s", orderID, box.events[0].AggregateID)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{ID: orderID, Status: enums.OrderStatusCancelled}}
	box := &stubOutbox{}
	svc := newTestOrdersService(t, repo, box)

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID:    orderID,
		Target:     enums.OrderStatusProcessing,
		Confirm:    true,
		ActorID:    uuid.New(),
		ActorEmail: "ops@foodheaven.test",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatal("expected no status write on rejected transition")
	}
	if len(box.events) != 0 {
		t.Fatal("expected no event on rejected transition")
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := newTestOrdersService(t, &stubOrdersRepo{}, &stubOutbox{})

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID:    uuid.New(),
		Target:     enums.OrderStatusProcessing,
		ActorID:    uuid.New(),
		ActorEmail: "ops@foodheaven.test",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusCancelledNeedsConfirm(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{ID: orderID, Status: enums.OrderStatusCancelled}}
	svc := newTestOrdersService(t, repo, &stubOutbox{})

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID:    orderID,
		Target:     enums.OrderStatusNew,
		ActorID:    uuid.New(),
		ActorEmail: "ops@foodheaven.test",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected conflict without confirm, got %v", err)
	}

	dto, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID:    orderID,
		Target:     enums.OrderStatusNew,
		Confirm:    true,
		ActorID:    uuid.New(),
		ActorEmail: "ops@foodheaven.test",
	})
	if err != nil {
		t.Fatalf("UpdateStatus with confirm: %v", err)
	}
	if dto.Status != enums.OrderStatusNew {
		t.Fatalf("expected new, got %s", dto.Status)
	}
}
