package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

type OrderService struct {
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo

	// Optional collaborators; nil in tests.
	Events  *events.Publisher
	Metrics *metrics.StoreMetrics
}

func NewOrderService(prods *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Prods: prods, Orders: orders}
}

type OrderItemRequest struct {
	Product  string `json:"product"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	TotalAmount     float64                `json:"totalAmount"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// Place turns a submitted cart into a persisted order.
//
// All items are validated against the catalog before anything is written.
// The write itself, order header plus line items plus one inventory
// reservation per item, happens in a single transaction: a reservation that
// finds less stock than the validation pass saw (a concurrent placement won
// the race) rolls the whole order back, so there is never a partial order
// and inventory never goes negative.
func (s *OrderService) Place(userID string, req PlaceOrderRequest) (domain.Order, error) {
	if len(req.Items) == 0 || req.TotalAmount <= 0 || req.ShippingAddress.Empty() {
		s.reject("validation")
		return domain.Order{}, &ValidationError{Message: "Please provide all required fields"}
	}
	method := req.PaymentMethod
	if method == "" {
		method = domain.PayUPI
	}
	if !domain.ValidPaymentMethod(method) {
		s.reject("validation")
		return domain.Order{}, &ValidationError{Message: "Invalid payment method"}
	}

	// Validate every item before any mutation.
	catalog := make(map[string]domain.Product, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			s.reject("validation")
			return domain.Order{}, &ValidationError{Message: "Item quantity must be at least 1"}
		}
		p, err := s.Prods.Get(it.Product)
		if err == sql.ErrNoRows {
			s.reject("not_found")
			return domain.Order{}, &NotFoundError{Name: it.Name}
		}
		if err != nil {
			return domain.Order{}, err
		}
		if p.CurrentInventory < it.Quantity {
			s.reject("insufficient_inventory")
			return domain.Order{}, &InsufficientInventoryError{Name: p.Name}
		}
		catalog[it.Product] = p
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   method,
		PaymentStatus:   domain.PaymentPending,
		OrderStatus:     domain.OrderProcessing,
	}
	for _, it := range req.Items {
		p := catalog[it.Product]
		item := domain.OrderItem{
			ProductID: it.Product,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		}
		// Fill snapshot gaps from the catalog record.
		if item.Name == "" {
			item.Name = p.Name
		}
		if item.Price == "" {
			item.Price = p.Price
		}
		if item.Image == "" {
			item.Image = p.Image
		}
		order.Items = append(order.Items, item)
	}

	if err := s.Orders.Place(order); err != nil {
		var stock *repos.InsufficientStockError
		if errors.As(err, &stock) {
			s.reject("insufficient_inventory")
			return domain.Order{}, &InsufficientInventoryError{Name: catalog[stock.ProductID].Name}
		}
		return domain.Order{}, err
	}

	placed, err := s.Orders.GetForUser(order.ID, userID)
	if err != nil {
		return domain.Order{}, err
	}
	s.populate(&placed)

	if s.Metrics != nil {
		s.Metrics.OrdersPlaced.Inc()
	}
	s.Events.OrderPlaced(placed.ID, userID, placed.TotalAmount)
	return placed, nil
}

// ListByUser returns the caller's orders newest first, products resolved.
func (s *OrderService) ListByUser(userID string) ([]domain.Order, error) {
	orders, err := s.Orders.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		s.populate(&orders[i])
	}
	return orders, nil
}

// GetForUser returns one order scoped to the caller; sql.ErrNoRows when it
// does not exist or belongs to someone else.
func (s *OrderService) GetForUser(orderID, userID string) (domain.Order, error) {
	o, err := s.Orders.GetForUser(orderID, userID)
	if err != nil {
		return domain.Order{}, err
	}
	s.populate(&o)
	return o, nil
}

// UpdateStatus moves an order through the status machine, rejecting
// transitions the machine does not allow.
func (s *OrderService) UpdateStatus(orderID, next string) error {
	if !domain.ValidOrderStatus(next) {
		return &ValidationError{Message: "Invalid order status"}
	}
	current, err := s.Orders.Status(orderID)
	if err == sql.ErrNoRows {
		return &NotFoundError{Message: "Order not found"}
	}
	if err != nil {
		return err
	}
	if !domain.CanTransition(current, next) {
		return &ValidationError{Message: "Cannot change order status from " + current + " to " + next}
	}
	return s.Orders.UpdateStatus(orderID, next)
}

// populate resolves each line item's weak product reference to the current
// catalog record; items whose product was deleted keep a nil Product and
// their stored snapshot.
func (s *OrderService) populate(o *domain.Order) {
	for i := range o.Items {
		if p, err := s.Prods.Get(o.Items[i].ProductID); err == nil {
			o.Items[i].Product = &p
		}
	}
}

func (s *OrderService) reject(reason string) {
	if s.Metrics != nil {
		s.Metrics.OrderRejections.WithLabelValues(reason).Inc()
	}
}
