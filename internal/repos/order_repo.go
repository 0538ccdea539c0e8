package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// InsufficientStockError reports a reservation that lost the race: the
// conditional decrement found less stock than requested at commit time.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductID)
}

// Place persists an order and reserves inventory for every line item inside a
// single transaction. Each reservation is a conditional decrement
// (current_inventory >= qty); if any item cannot be reserved the whole order
// rolls back, so inventory never goes negative and no partial state is left.
func (r *OrderRepo) Place(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, total_amount, ship_name, ship_email, ship_address,
	     payment_method, payment_status, order_status, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.TotalAmount, o.ShippingAddress.Name, o.ShippingAddress.Email, o.ShippingAddress.Address,
		o.PaymentMethod, o.PaymentStatus, o.OrderStatus); err != nil {
		return err
	}

	for i, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, line, product_id, name, price, quantity, image)
		  VALUES (?, ?, ?, ?, ?, ?, ?)
		`, o.ID, i+1, it.ProductID, it.Name, it.Price, it.Quantity, it.Image); err != nil {
			return err
		}

		res, err := tx.Exec(`
		  UPDATE products
		  SET current_inventory = current_inventory - ?
		  WHERE id = ? AND current_inventory >= ?
		`, it.Quantity, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &InsufficientStockError{ProductID: it.ProductID}
		}
	}

	return tx.Commit()
}

const orderCols = `
  id, user_id, total_amount,
  COALESCE(ship_name,'') AS ship_name, COALESCE(ship_email,'') AS ship_email, COALESCE(ship_address,'') AS ship_address,
  payment_method, payment_status, order_status,
  COALESCE(upi_transaction_id,'') AS upi_transaction_id, created_at`

// ListByUser returns a user's orders newest first, items attached.
func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := r.db.Select(&orders, `
	  SELECT `+orderCols+`
	  FROM orders
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC, id
	`, userID); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	query, args, err := sqlx.In(`
	  SELECT order_id, product_id, COALESCE(name,'') AS name, COALESCE(price,'') AS price, quantity, COALESCE(image,'') AS image
	  FROM order_items
	  WHERE order_id IN (?)
	  ORDER BY order_id, line
	`, ids)
	if err != nil {
		return nil, err
	}
	var items []domain.OrderItem
	if err := r.db.Select(&items, query, args...); err != nil {
		return nil, err
	}

	byOrder := make(map[string][]domain.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		orders[i].ShippingAddress = domain.ShippingAddress{
			Name: orders[i].ShipName, Email: orders[i].ShipEmail, Address: orders[i].ShipAddress,
		}
	}
	return orders, nil
}

// GetForUser fetches one order scoped to its owner. Returns sql.ErrNoRows for
// both "absent" and "not owned" so callers cannot probe other users' orders.
func (r *OrderRepo) GetForUser(orderID, userID string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT `+orderCols+`
	  FROM orders
	  WHERE id = ? AND user_id = ?
	`, orderID, userID); err != nil {
		return domain.Order{}, err
	}

	if err := r.db.Select(&o.Items, `
	  SELECT order_id, product_id, COALESCE(name,'') AS name, COALESCE(price,'') AS price, quantity, COALESCE(image,'') AS image
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY line
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	o.ShippingAddress = domain.ShippingAddress{Name: o.ShipName, Email: o.ShipEmail, Address: o.ShipAddress}
	return o, nil
}

// Status returns the current order status (admin transition checks).
func (r *OrderRepo) Status(orderID string) (string, error) {
	var s string
	err := r.db.Get(&s, `SELECT order_status FROM orders WHERE id = ?`, orderID)
	return s, err
}

func (r *OrderRepo) UpdateStatus(orderID, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET order_status = ? WHERE id = ?`, status, orderID)
	return err
}
