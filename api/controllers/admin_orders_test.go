package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/foodheaven/storefront-backend/api/middleware"
	orderssvc "github.com/foodheaven/storefront-backend/internal/orders"
	userssvc "github.com/foodheaven/storefront-backend/internal/users"
	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/types"
)

type stubOrdersService struct {
	statusInput orderssvc.StatusUpdateInput
	updated     bool
}

func (s *stubOrdersService) Get(_ context.Context, id uuid.UUID) (*orderssvc.OrderDTO, error) {
	return &orderssvc.OrderDTO{ID: id, Status: enums.OrderStatusNew}, nil
}

func (s *stubOrdersService) List(_ context.Context) ([]orderssvc.OrderDTO, error) {
	return []orderssvc.OrderDTO{{ID: uuid.New()}}, nil
}

func (s *stubOrdersService) ListForUser(_ context.Context, _ uuid.UUID) ([]orderssvc.OrderDTO, error) {
	return nil, nil
}

func (s *stubOrdersService) UpdateStatus(_ context.Context, input orderssvc.StatusUpdateInput) (*orderssvc.OrderDTO, error) {
	s.statusInput = input
	s.updated = true
	return &orderssvc.OrderDTO{ID: input.OrderID, Status: input.Target}, nil
}

type stubProfileService struct {
	email string
}

func (s *stubProfileService) Profile(_ context.Context, id uuid.UUID) (*userssvc.UserDTO, error) {
	return &userssvc.UserDTO{ID: id, Email: s.email, Role: enums.UserRoleAdmin, IsActive: true}, nil
}

func (s *stubProfileService) UpdateProfile(_ context.Context, _ uuid.UUID, _ userssvc.UpdateProfileDTO) (*userssvc.UserDTO, error) {
	panic("unimplemented")
}

func (s *stubProfileService) AddAddress(_ context.Context, _ uuid.UUID, _ types.DeliveryAddress) (*userssvc.UserDTO, error) {
	panic("unimplemented")
}

func statusRequest(ctx context.Context, orderID, body string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID+"/status", strings.NewReader(body))
	return req.WithContext(ctx)
}

func TestAdminOrderStatusUpdatesWithActor(t *testing.T) {
	logg := testControllerLogger()
	orders := &stubOrdersService{}
	profiles := &stubProfileService{email: "ops@foodheaven.test"}
	actorID := uuid.New()
	orderID := uuid.New()

	ctx := middleware.WithUserID(context.Background(), actorID.String())
	req := statusRequest(ctx, orderID.String(), `{"status":"processing","confirm":false}`)
	rec := httptest.NewRecorder()
	AdminOrderStatus(orders, profiles, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !orders.updated {
		t.Fatalf("expected UpdateStatus to be invoked")
	}
	if orders.statusInput.OrderID != orderID {
		t.Fatalf("unexpected order id %s", orders.statusInput.OrderID)
	}
	if orders.statusInput.Target != enums.OrderStatusProcessing {
		t.Fatalf("unexpected target %q", orders.statusInput.Target)
	}
	if orders.statusInput.ActorID != actorID {
		t.Fatalf("unexpected actor id %s", orders.statusInput.ActorID)
	}
	if orders.statusInput.ActorEmail != "ops@foodheaven.test" {
		t.Fatalf("unexpected actor email %q", orders.statusInput.ActorEmail)
	}
}

func TestAdminOrderStatusCarriesConfirmFlag(t *testing.T) {
	logg := testControllerLogger()
	orders := &stubOrdersService{}
	profiles := &stubProfileService{email: "ops@foodheaven.test"}

	ctx := middleware.WithUserID(context.Background(), uuid.New().String())
	req := statusRequest(ctx, uuid.New().String(), `{"status":"cancelled","confirm":true}`)
	rec := httptest.NewRecorder()
	AdminOrderStatus(orders, profiles, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !orders.statusInput.Confirm {
		t.Fatalf("expected confirm flag to pass through")
	}
}

func TestAdminOrderStatusRejectsUnknownStatus(t *testing.T) {
	logg := testControllerLogger()
	orders := &stubOrdersService{}

	ctx := middleware.WithUserID(context.Background(), uuid.New().String())
	req := statusRequest(ctx, uuid.New().String(), `{"status":"shipped"}`)
	rec := httptest.NewRecorder()
	AdminOrderStatus(orders, &stubProfileService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
	if orders.updated {
		t.Fatalf("UpdateStatus must not be invoked")
	}
}

func TestAdminOrderStatusRejectsInvalidOrderID(t *testing.T) {
	logg := testControllerLogger()

	ctx := middleware.WithUserID(context.Background(), uuid.New().String())
	req := statusRequest(ctx, "not-a-uuid", `{"status":"processing"}`)
	rec := httptest.NewRecorder()
	AdminOrderStatus(&stubOrdersService{}, &stubProfileService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid order id, got %d", rec.Code)
	}
}

func TestAdminOrderStatusRequiresUser(t *testing.T) {
	logg := testControllerLogger()

	req := statusRequest(context.Background(), uuid.New().String(), `{"status":"processing"}`)
	rec := httptest.NewRecorder()
	AdminOrderStatus(&stubOrdersService{}, &stubProfileService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}
}

func TestAdminOrdersFeedStreamsEvents(t *testing.T) {
	logg := testControllerLogger()
	hub := orderssvc.NewHub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/feed", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		AdminOrdersFeed(hub, logg).ServeHTTP(rec, req)
		close(done)
	}()

	// Wait until the subscriber is registered before publishing.
	deadline := time.After(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("subscriber never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	orderID := uuid.New()
	hub.Publish(orderssvc.FeedEvent{
		EventType:  enums.EventOrderPlaced,
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	})

	// The handler only notices delivered events as it writes them, so give
	// it a moment before tearing the stream down.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, ": connected") {
		t.Fatalf("expected connected preamble, got %q", body)
	}
	if !strings.Contains(body, "event: "+string(enums.EventOrderPlaced)) {
		t.Fatalf("expected placed event frame, got %q", body)
	}
	if !strings.Contains(body, orderID.String()) {
		t.Fatalf("expected order id in data frame, got %q", body)
	}
}

func TestAdminOrdersFeedTolerateNilLogger(t *testing.T) {
	hub := orderssvc.NewHub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/feed", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		AdminOrdersFeed(hub, nil).ServeHTTP(rec, req)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("subscriber never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if !strings.Contains(rec.Body.String(), ": connected") {
		t.Fatalf("expected connected preamble, got %q", rec.Body.String())
	}
}
