package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func orderTestEnv(t *testing.T) (*sqlx.DB, *services.OrderService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	return db, services.NewOrderService(prodRepo, orderRepo)
}

func seedProduct(t *testing.T, db *sqlx.DB, id, name string, qty int) {
	t.Helper()
	db.MustExec(`
	  INSERT INTO products(id, name, description, price, image, categories_json, brand, current_inventory)
	  VALUES (?, ?, 'test product', '19.99', 'products/test.jpg', '["test"]', 'Acme', ?)
	`, id, name, qty)
}

func placeRequest(productID, name string, qty int) services.PlaceOrderRequest {
	return services.PlaceOrderRequest{
		Items: []services.OrderItemRequest{
			{Product: productID, Name: name, Price: "19.99", Quantity: qty, Image: "products/test.jpg"},
		},
		TotalAmount: 19.99 * float64(qty),
		ShippingAddress: domain.ShippingAddress{
			Name: "Demo User", Email: "demo@store.com", Address: "1 Main St",
		},
	}
}

func inventoryOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT current_inventory FROM products WHERE id = ?`, productID); err != nil {
		t.Fatal(err)
	}
	return n
}

func orderCount(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestPlaceOrderSuccess(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-lamp", "Desk Lamp", 5)

	order, err := svc.Place("u-demo", placeRequest("p-lamp", "Desk Lamp", 3))
	if err != nil {
		t.Fatal(err)
	}

	if order.ID == "" {
		t.Fatal("no order id")
	}
	if order.OrderStatus != domain.OrderProcessing {
		t.Fatalf("want orderStatus=processing, got %s", order.OrderStatus)
	}
	if order.PaymentStatus != domain.PaymentPending {
		t.Fatalf("want paymentStatus=pending, got %s", order.PaymentStatus)
	}
	if order.PaymentMethod != domain.PayUPI {
		t.Fatalf("want default payment method UPI, got %s", order.PaymentMethod)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("bad items: %+v", order.Items)
	}
	if order.Items[0].Product == nil || order.Items[0].Product.ID != "p-lamp" {
		t.Fatalf("item product not populated: %+v", order.Items[0])
	}

	if got := inventoryOf(t, db, "p-lamp"); got != 2 {
		t.Fatalf("want inventory 2, got %d", got)
	}
}

func TestPlaceOrderInsufficientInventory(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-mug", "Stone Mug", 2)
	before := orderCount(t, db)

	_, err := svc.Place("u-demo", placeRequest("p-mug", "Stone Mug", 3))
	var ii *services.InsufficientInventoryError
	if !errors.As(err, &ii) {
		t.Fatalf("want InsufficientInventoryError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Insufficient inventory for Stone Mug") {
		t.Fatalf("bad message: %q", err.Error())
	}

	if got := inventoryOf(t, db, "p-mug"); got != 2 {
		t.Fatalf("inventory mutated on failed order: %d", got)
	}
	if orderCount(t, db) != before {
		t.Fatal("order persisted on failed placement")
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db, svc := orderTestEnv(t)
	before := orderCount(t, db)

	_, err := svc.Place("u-demo", placeRequest("p-ghost", "Ghost Lamp", 1))
	var nf *services.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Product Ghost Lamp not found") {
		t.Fatalf("bad message: %q", err.Error())
	}
	if orderCount(t, db) != before {
		t.Fatal("order persisted on failed placement")
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	_, svc := orderTestEnv(t)

	cases := []services.PlaceOrderRequest{
		{}, // everything missing
		{ // no items
			TotalAmount:     10,
			ShippingAddress: domain.ShippingAddress{Address: "1 Main St"},
		},
		{ // no total
			Items:           []services.OrderItemRequest{{Product: "p-lamp", Quantity: 1}},
			ShippingAddress: domain.ShippingAddress{Address: "1 Main St"},
		},
		{ // no shipping address
			Items:       []services.OrderItemRequest{{Product: "p-lamp", Quantity: 1}},
			TotalAmount: 10,
		},
	}
	for i, req := range cases {
		_, err := svc.Place("u-demo", req)
		var ve *services.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: want ValidationError, got %v", i, err)
		}
	}
}

// A multi-item order where a later item cannot be covered must leave no
// trace: no order row and no decrement for the earlier items.
func TestPlaceOrderRollsBackAllItems(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-a", "Widget A", 10)
	seedProduct(t, db, "p-b", "Widget B", 10)
	before := orderCount(t, db)

	req := services.PlaceOrderRequest{
		Items: []services.OrderItemRequest{
			{Product: "p-a", Name: "Widget A", Price: "19.99", Quantity: 2},
			{Product: "p-b", Name: "Widget B", Price: "19.99", Quantity: 4},
		},
		TotalAmount:     119.94,
		ShippingAddress: domain.ShippingAddress{Address: "1 Main St"},
	}

	// Stock for p-b vanishes after the request was built, as a racing order
	// would make it vanish between validation and commit.
	db.MustExec(`UPDATE products SET current_inventory = 1 WHERE id = 'p-b'`)

	_, err := svc.Place("u-demo", req)
	var ii *services.InsufficientInventoryError
	if !errors.As(err, &ii) {
		t.Fatalf("want InsufficientInventoryError, got %v", err)
	}

	if got := inventoryOf(t, db, "p-a"); got != 10 {
		t.Fatalf("first item decremented despite rollback: %d", got)
	}
	if got := inventoryOf(t, db, "p-b"); got != 1 {
		t.Fatalf("second item decremented despite rollback: %d", got)
	}
	if orderCount(t, db) != before {
		t.Fatal("order row survived rollback")
	}
}

// Placements are not idempotent: the same request twice yields two orders
// and a double decrement, until stock runs out and the guard kicks in.
func TestPlaceOrderNoDeduplication(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-cap", "Wool Cap", 5)
	base := orderCount(t, db)

	req := placeRequest("p-cap", "Wool Cap", 2)
	if _, err := svc.Place("u-demo", req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Place("u-demo", req); err != nil {
		t.Fatal(err)
	}

	if got := orderCount(t, db) - base; got != 2 {
		t.Fatalf("want 2 orders, got %d", got)
	}
	if got := inventoryOf(t, db, "p-cap"); got != 1 {
		t.Fatalf("want inventory 1 after double placement, got %d", got)
	}

	// Third attempt exceeds the remaining unit and must fail cleanly.
	_, err := svc.Place("u-demo", req)
	var ii *services.InsufficientInventoryError
	if !errors.As(err, &ii) {
		t.Fatalf("want InsufficientInventoryError, got %v", err)
	}
	if got := inventoryOf(t, db, "p-cap"); got != 1 {
		t.Fatalf("inventory went below guard: %d", got)
	}
}

// A cart may list the same product on more than one line; both lines are
// stored and each one reserves its own quantity.
func TestPlaceOrderDuplicateProductLines(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-sock", "Wool Socks", 10)

	req := services.PlaceOrderRequest{
		Items: []services.OrderItemRequest{
			{Product: "p-sock", Name: "Wool Socks", Price: "19.99", Quantity: 2},
			{Product: "p-sock", Name: "Wool Socks", Price: "19.99", Quantity: 3},
		},
		TotalAmount:     99.95,
		ShippingAddress: domain.ShippingAddress{Address: "1 Main St"},
	}

	order, err := svc.Place("u-demo", req)
	if err != nil {
		t.Fatal(err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("want both lines stored, got %+v", order.Items)
	}
	if order.Items[0].Quantity != 2 || order.Items[1].Quantity != 3 {
		t.Fatalf("lines out of submitted order: %+v", order.Items)
	}
	if got := inventoryOf(t, db, "p-sock"); got != 5 {
		t.Fatalf("want inventory 5 after both lines, got %d", got)
	}

	// When the combined quantity no longer fits, the whole order rolls back.
	db.MustExec(`UPDATE products SET current_inventory = 4 WHERE id = 'p-sock'`)
	_, err = svc.Place("u-demo", req)
	var ii *services.InsufficientInventoryError
	if !errors.As(err, &ii) {
		t.Fatalf("want InsufficientInventoryError, got %v", err)
	}
	if got := inventoryOf(t, db, "p-sock"); got != 4 {
		t.Fatalf("partial decrement survived rollback: %d", got)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-tea", "Tea Pot", 5)

	order, err := svc.Place("u-demo", placeRequest("p-tea", "Tea Pot", 1))
	if err != nil {
		t.Fatal(err)
	}

	// Illegal jump straight to delivered.
	err = svc.UpdateStatus(order.ID, domain.OrderDelivered)
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("processing->delivered should be rejected, got %v", err)
	}

	// Legal chain.
	for _, next := range []string{domain.OrderShipped, domain.OrderDelivered} {
		if err := svc.UpdateStatus(order.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// Delivered is terminal.
	if err := svc.UpdateStatus(order.ID, domain.OrderCancelled); !errors.As(err, &ve) {
		t.Fatalf("delivered->cancelled should be rejected, got %v", err)
	}

	// Unknown status and unknown order.
	if err := svc.UpdateStatus(order.ID, "mislaid"); !errors.As(err, &ve) {
		t.Fatalf("unknown status should be rejected, got %v", err)
	}
	var nf *services.NotFoundError
	if err := svc.UpdateStatus("no-such-order", domain.OrderShipped); !errors.As(err, &nf) {
		t.Fatalf("unknown order should be NotFoundError, got %v", err)
	}

	var status string
	if err := db.Get(&status, `SELECT order_status FROM orders WHERE id = ?`, order.ID); err != nil {
		t.Fatal(err)
	}
	if status != domain.OrderDelivered {
		t.Fatalf("want delivered, got %s", status)
	}
}

// Deleting a product must not disturb order history: the snapshot stays,
// only the populated reference goes nil.
func TestOrderHistorySurvivesProductDelete(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-vase", "Glass Vase", 5)

	order, err := svc.Place("u-demo", placeRequest("p-vase", "Glass Vase", 1))
	if err != nil {
		t.Fatal(err)
	}

	db.MustExec(`DELETE FROM products WHERE id = 'p-vase'`)

	got, err := svc.GetForUser(order.ID, "u-demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items lost: %+v", got.Items)
	}
	it := got.Items[0]
	if it.Name != "Glass Vase" || it.Price != "19.99" {
		t.Fatalf("snapshot lost: %+v", it)
	}
	if it.Product != nil {
		t.Fatalf("deleted product should not populate, got %+v", it.Product)
	}
}

func TestListByUserScoped(t *testing.T) {
	db, svc := orderTestEnv(t)
	seedProduct(t, db, "p-pen", "Fountain Pen", 50)

	for i := 0; i < 3; i++ {
		if _, err := svc.Place("u-demo", placeRequest("p-pen", "Fountain Pen", 1)); err != nil {
			t.Fatal(err)
		}
	}
	other, err := svc.Place("u-admin", placeRequest("p-pen", "Fountain Pen", 1))
	if err != nil {
		t.Fatal(err)
	}

	orders, err := svc.ListByUser("u-demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 3 {
		t.Fatalf("want 3 orders for u-demo, got %d", len(orders))
	}
	for _, o := range orders {
		if o.UserID != "u-demo" {
			t.Fatalf("foreign order in listing: %+v", o)
		}
		if len(o.Items) != 1 || o.Items[0].Product == nil {
			t.Fatalf("items not attached/populated: %+v", o.Items)
		}
	}

	// Owner scoping on point lookup.
	if _, err := svc.GetForUser(other.ID, "u-demo"); err == nil {
		t.Fatal("foreign order visible through GetForUser")
	}
}
