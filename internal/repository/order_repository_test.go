package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aipan-bazaar/internal/domain"
)

func createOrderTestProduct(t *testing.T, stock int) *domain.Product {
	t.Helper()

	repo := NewProductRepository(testDB, zap.NewNop())
	now := time.Now().UTC().Truncate(time.Microsecond)
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      "Brass Loataa",
		Price:     decimal.NewFromInt(300),
		Category:  domain.CategoryLoataas,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM products WHERE id = $1", product.ID)
	})
	return product
}

func buildOrder(userID string, items []domain.OrderItem) *domain.Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		CustomerName:    "Meena Joshi",
		CustomerEmail:   "meena@example.com",
		CustomerPhone:   "+91 98765 43210",
		ShippingAddress: "12 Mall Road, Almora, Uttarakhand",
		Items:           items,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestOrderCreateDecrementsStock(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := createOrderTestProduct(t, 5)

	order := buildOrder("user-stock", []domain.OrderItem{{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  3,
	}})

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM orders WHERE id = $1", order.ID)
	})

	var stock int
	if err := testDB.QueryRow("SELECT stock FROM products WHERE id = $1", product.ID).Scan(&stock); err != nil {
		t.Fatalf("Failed to read stock: %v", err)
	}
	if stock != 2 {
		t.Errorf("Expected stock 2 after order, got %d", stock)
	}
}

func TestOrderCreateInsufficientStockAborts(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := createOrderTestProduct(t, 2)

	order := buildOrder("user-abort", []domain.OrderItem{{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  3,
	}})

	err := repo.Create(ctx, order)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got: %v", err)
	}

	// The transaction rolled back: stock untouched, no order row
	var stock int
	if err := testDB.QueryRow("SELECT stock FROM products WHERE id = $1", product.ID).Scan(&stock); err != nil {
		t.Fatalf("Failed to read stock: %v", err)
	}
	if stock != 2 {
		t.Errorf("Expected stock unchanged at 2, got %d", stock)
	}

	var count int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM orders WHERE id = $1", order.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count orders: %v", err)
	}
	if count != 0 {
		t.Error("Order row persisted despite insufficient stock")
	}
}

func TestOrderCreatePartialFailureRollsBackAllLines(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	inStock := createOrderTestProduct(t, 5)
	depleted := createOrderTestProduct(t, 1)

	order := buildOrder("user-partial", []domain.OrderItem{
		{ProductID: inStock.ID, Name: inStock.Name, Price: inStock.Price, Quantity: 2},
		{ProductID: depleted.ID, Name: depleted.Name, Price: depleted.Price, Quantity: 2},
	})

	if err := repo.Create(ctx, order); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got: %v", err)
	}

	// The first line's decrement must have been rolled back too
	var stock int
	if err := testDB.QueryRow("SELECT stock FROM products WHERE id = $1", inStock.ID).Scan(&stock); err != nil {
		t.Fatalf("Failed to read stock: %v", err)
	}
	if stock != 5 {
		t.Errorf("Expected first line's stock restored to 5, got %d", stock)
	}
}

func TestOrderItemsSnapshotRoundTrip(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := createOrderTestProduct(t, 10)

	order := buildOrder("user-snapshot", []domain.OrderItem{{
		ProductID:   product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    2,
		ImageBase64: "bG9hdGFh",
	}})

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM orders WHERE id = $1", order.ID)
	})

	orders, err := repo.ListByUser(ctx, "user-snapshot")
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders))
	}

	got := orders[0]
	if len(got.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(got.Items))
	}
	item := got.Items[0]
	if item.ProductID != product.ID || item.Name != product.Name ||
		!item.Price.Equal(product.Price) || item.Quantity != 2 || item.ImageBase64 != "bG9hdGFh" {
		t.Errorf("Item snapshot not preserved: %+v", item)
	}
	if !got.TotalAmount.Equal(order.TotalAmount) {
		t.Errorf("Total mismatch. Expected %s, got %s", order.TotalAmount, got.TotalAmount)
	}
}

func TestOrderListByUserScopesToUser(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := createOrderTestProduct(t, 20)
	line := []domain.OrderItem{{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1}}

	mine := buildOrder("user-mine", line)
	theirs := buildOrder("user-theirs", line)
	for _, o := range []*domain.Order{mine, theirs} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Failed to create order: %v", err)
		}
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM orders WHERE id = $1 OR id = $2", mine.ID, theirs.ID)
	})

	orders, err := repo.ListByUser(ctx, "user-mine")
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	for _, o := range orders {
		if o.UserID != "user-mine" {
			t.Errorf("Found foreign order %s in user listing", o.ID)
		}
	}
	if len(orders) != 1 {
		t.Errorf("Expected 1 order for user-mine, got %d", len(orders))
	}
}

func TestOrderListNewestFirst(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := createOrderTestProduct(t, 20)
	line := []domain.OrderItem{{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1}}

	older := buildOrder("user-order-time", line)
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := buildOrder("user-order-time", line)

	for _, o := range []*domain.Order{older, newer} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Failed to create order: %v", err)
		}
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM orders WHERE id = $1 OR id = $2", older.ID, newer.ID)
	})

	orders, err := repo.ListByUser(ctx, "user-order-time")
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != newer.ID {
		t.Error("Orders not listed newest first")
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := createOrderTestProduct(t, 10)
	order := buildOrder("user-status", []domain.OrderItem{{
		ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1,
	}})

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM orders WHERE id = $1", order.ID)
	})

	if err := repo.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}

	orders, err := repo.ListByUser(ctx, "user-status")
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if len(orders) != 1 || orders[0].Status != domain.OrderStatusShipped {
		t.Errorf("Status not updated: %+v", orders)
	}
}

func TestOrderUpdateStatusNotFound(t *testing.T) {
	repo := NewOrderRepository(testDB)

	if err := repo.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatusShipped); err != ErrOrderNotFound {
		t.Errorf("Expected ErrOrderNotFound, got: %v", err)
	}
}
