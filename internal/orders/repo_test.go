package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foodheaven/storefront-backend/pkg/db/models"
	"github.com/foodheaven/storefront-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  guest_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  address TEXT,
  service_type TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  delivery_charge NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'new',
  updated_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_id TEXT,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  line_total NUMERIC NOT NULL,
  image_url TEXT
);`

	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID *uuid.UUID, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		CustomerName:   "Asha Rao",
		CustomerEmail:  "asha@example.com",
		CustomerPhone:  "9999900000",
		ServiceType:    enums.ServiceTypeDelivery,
		PaymentMethod:  enums.PaymentMethodCOD,
		Subtotal:       decimal.NewFromInt(200),
		DeliveryCharge: decimal.NewFromInt(40),
		Tax:            decimal.NewFromInt(12),
		Total:          decimal.NewFromInt(252),
		Status:         enums.OrderStatusNew,
		CreatedAt:      createdAt,
		Items: []models.OrderLineItem{
			{
				ID:        uuid.New(),
				Name:      "Chicken Biryani",
				UnitPrice: decimal.NewFromInt(100),
				Quantity:  2,
				LineTotal: decimal.NewFromInt(200),
			},
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedOrder(t, db, nil, time.Now().UTC())

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Chicken Biryani", found.Items[0].Name)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(252)))
}

func TestRepositoryListNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	older := seedOrder(t, db, nil, time.Now().UTC().Add(-time.Hour))
	newer := seedOrder(t, db, nil, time.Now().UTC())

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestRepositoryListByUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	mine := seedOrder(t, db, &userID, time.Now().UTC())
	seedOrder(t, db, nil, time.Now().UTC())

	orders, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
}

func TestRepositoryUpdateStatusStampsAuditFields(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedOrder(t, db, nil, time.Now().UTC())

	err := repo.UpdateStatus(ctx, seeded.ID, enums.OrderStatusProcessing, "ops@foodheaven.test")
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, found.Status)
	require.NotNil(t, found.UpdatedBy)
	assert.Equal(t, "ops@foodheaven.test", *found.UpdatedBy)
}
