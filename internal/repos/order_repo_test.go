package repos_test

import (
	"errors"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"storefront/internal/domain"
	"storefront/internal/repos"
)

func TestPlaceReservesExactStock(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.MustExec(`
	  INSERT INTO products(id, name, price, current_inventory)
	  VALUES ('p-last', 'Last One', '10.00', 2)
	`)
	orders := repos.NewOrderRepo(db)

	mkOrder := func(id string, qty int) domain.Order {
		return domain.Order{
			ID:            id,
			UserID:        "u-demo",
			TotalAmount:   10,
			PaymentMethod: domain.PayUPI,
			PaymentStatus: domain.PaymentPending,
			OrderStatus:   domain.OrderProcessing,
			Items: []domain.OrderItem{
				{ProductID: "p-last", Name: "Last One", Price: "10.00", Quantity: qty},
			},
		}
	}

	// Taking the entire remaining stock is allowed (guard is >=, not >).
	if err := orders.Place(mkOrder("o-first", 2)); err != nil {
		t.Fatal(err)
	}
	var qty int
	if err := db.Get(&qty, `SELECT current_inventory FROM products WHERE id = 'p-last'`); err != nil {
		t.Fatal(err)
	}
	if qty != 0 {
		t.Fatalf("want 0, got %d", qty)
	}

	// Next unit is not there; the typed error names the product.
	err = orders.Place(mkOrder("o-second", 1))
	var stock *repos.InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if stock.ProductID != "p-last" {
		t.Fatalf("bad product in error: %+v", stock)
	}
	if err := db.Get(&qty, `SELECT current_inventory FROM products WHERE id = 'p-last'`); err != nil {
		t.Fatal(err)
	}
	if qty != 0 {
		t.Fatalf("stock went negative or restocked: %d", qty)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders WHERE id = 'o-second'`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("failed order left a header row")
	}
}

// Line items come back in the order the client submitted them, keyed by the
// line column rather than whatever order sqlite happens to scan.
func TestOrderItemsKeepSubmittedOrder(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.MustExec(`
	  INSERT INTO products(id, name, price, current_inventory) VALUES
	    ('p-one', 'One', '1.00', 10),
	    ('p-two', 'Two', '2.00', 10)
	`)
	orders := repos.NewOrderRepo(db)

	placed := domain.Order{
		ID:            "o-lines",
		UserID:        "u-demo",
		TotalAmount:   7,
		PaymentMethod: domain.PayUPI,
		PaymentStatus: domain.PaymentPending,
		OrderStatus:   domain.OrderProcessing,
		Items: []domain.OrderItem{
			{ProductID: "p-two", Name: "Two", Price: "2.00", Quantity: 1},
			{ProductID: "p-one", Name: "One", Price: "1.00", Quantity: 3},
			{ProductID: "p-two", Name: "Two", Price: "2.00", Quantity: 1},
		},
	}
	if err := orders.Place(placed); err != nil {
		t.Fatal(err)
	}

	got, err := orders.GetForUser("o-lines", "u-demo")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"p-two", "p-one", "p-two"}
	if len(got.Items) != len(want) {
		t.Fatalf("want %d items, got %+v", len(want), got.Items)
	}
	for i, pid := range want {
		if got.Items[i].ProductID != pid {
			t.Fatalf("item %d: want %s, got %s", i, pid, got.Items[i].ProductID)
		}
	}

	listed, err := orders.ListByUser("u-demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || len(listed[0].Items) != 3 {
		t.Fatalf("bad listing: %+v", listed)
	}
	for i, pid := range want {
		if listed[0].Items[i].ProductID != pid {
			t.Fatalf("listed item %d: want %s, got %s", i, pid, listed[0].Items[i].ProductID)
		}
	}
}
