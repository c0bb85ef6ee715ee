package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodheaven/storefront-backend/internal/cart"
	"github.com/foodheaven/storefront-backend/internal/orders"
	"github.com/foodheaven/storefront-backend/pkg/config"
	"github.com/foodheaven/storefront-backend/pkg/db/models"
	"github.com/foodheaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	"github.com/foodheaven/storefront-backend/pkg/outbox"
	"github.com/foodheaven/storefront-backend/pkg/outbox/payloads"
	"github.com/foodheaven/storefront-backend/pkg/types"
)

type cartManager interface {
	State(ctx context.Context, ownerID string) (cart.State, error)
	Clear(ctx context.Context, ownerID string) error
}

type orderStore interface {
	WithTx(tx *gorm.DB) orders.Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// PlaceOrderInput carries everything checkout needs to commit an order.
// OwnerID selects the cart slot; UserID is set for signed-in customers
// and GuestID for anonymous ones.
type PlaceOrderInput struct {
	OwnerID       string
	UserID        *uuid.UUID
	GuestID       *string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       *types.DeliveryAddress
	ServiceType   enums.ServiceType
	PaymentMethod enums.PaymentMethod
}

// Service prices carts and turns them into orders.
type Service interface {
	Quote(ctx context.Context, ownerID string, serviceType enums.ServiceType) (*Quote, error)
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error)
}

type service struct {
	carts  cartManager
	orders orderStore
	tx     txRunner
	outbox outboxPublisher
	cfg    config.CheckoutConfig
	logg   *logger.Logger
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Carts  cartManager
	Orders orderStore
	Tx     txRunner
	Outbox outboxPublisher
	Config config.CheckoutConfig
	Logger *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart manager is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders store is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	return &service{
		carts:  params.Carts,
		orders: params.Orders,
		tx:     params.Tx,
		outbox: params.Outbox,
		cfg:    params.Config,
		logg:   params.Logger,
	}, nil
}

// Quote prices the owner's current cart without committing anything.
func (s *service) Quote(ctx context.Context, ownerID string, serviceType enums.ServiceType) (*Quote, error) {
	if !serviceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid service type")
	}
	state, err := s.carts.State(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	quote := ComputeQuote(s.cfg, state.TotalPrice(), serviceType)
	return &quote, nil
}

// PlaceOrder snapshots the cart into an immutable order, queues the
// placed event in the same transaction, and clears the cart afterwards.
// A cart-clear failure is logged but never unwinds the committed order.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	state, err := s.carts.State(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if len(state.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote := ComputeQuote(s.cfg, state.TotalPrice(), input.ServiceType)
	order := buildOrder(input, state, quote)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.orders.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		order = created

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actorRef(input),
			Data: payloads.OrderPlacedEvent{
				OrderID:       order.ID,
				CustomerName:  order.CustomerName,
				ServiceType:   order.ServiceType,
				PaymentMethod: order.PaymentMethod,
				Total:         order.Total,
				ItemCount:     state.TotalItems(),
				PlacedAt:      time.Now().UTC(),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, input.OwnerID); err != nil && s.logg != nil {
		logCtx := s.logg.WithOwnerID(ctx, input.OwnerID)
		logCtx = s.logg.WithOrderID(logCtx, order.ID.String())
		s.logg.Warn(logCtx, "cart clear after checkout failed")
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())
		logCtx = s.logg.WithField(logCtx, "total", order.Total.String())
		s.logg.Info(logCtx, "order placed")
	}
	return orders.FromModel(order), nil
}

func validateInput(input PlaceOrderInput) error {
	if input.OwnerID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if !input.ServiceType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid service type")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.ServiceType == enums.ServiceTypeDelivery && input.Address == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require an address")
	}
	return nil
}

func buildOrder(input PlaceOrderInput, state cart.State, quote Quote) *models.Order {
	items := make([]models.OrderLineItem, 0, len(state.Lines))
	for _, line := range state.Lines {
		itemID := line.ItemID
		imageURL := line.ImageURL
		items = append(items, models.OrderLineItem{
			ItemID:    &itemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
			ImageURL:  &imageURL,
		})
	}

	address := input.Address
	if input.ServiceType != enums.ServiceTypeDelivery {
		address = nil
	}

	return &models.Order{
		UserID:         input.UserID,
		GuestID:        input.GuestID,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CustomerEmail:  strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
		Address:        address,
		ServiceType:    input.ServiceType,
		PaymentMethod:  input.PaymentMethod,
		Subtotal:       quote.Subtotal,
		DeliveryCharge: quote.DeliveryCharge,
		Tax:            quote.Tax,
		Total:          quote.Total,
		Status:         enums.OrderStatusNew,
		Items:          items,
	}
}

func actorRef(input PlaceOrderInput) *outbox.ActorRef {
	if input.UserID == nil {
		return nil
	}
	userID := *input.UserID
	return &outbox.ActorRef{
		UserID: &userID,
		Role:   string(enums.UserRoleCustomer),
	}
}
