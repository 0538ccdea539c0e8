package domain

// Order statuses.
const (
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods.
const (
	PayUPI = "UPI"
	PayCOD = "COD"
)

type ShippingAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (a ShippingAddress) Empty() bool {
	return a.Name == "" && a.Email == "" && a.Address == ""
}

// OrderItem is one line of an order. Name/Price/Image are a snapshot taken at
// placement time; Product resolves the weak reference to the current product
// record and is nil when the product has since been deleted.
type OrderItem struct {
	OrderID   string   `db:"order_id" json:"-"`
	ProductID string   `db:"product_id" json:"-"`
	Name      string   `db:"name" json:"name"`
	Price     string   `db:"price" json:"price"`
	Quantity  int      `db:"quantity" json:"quantity"`
	Image     string   `db:"image" json:"image"`
	Product   *Product `db:"-" json:"product"`
}

type Order struct {
	ID               string          `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"user"`
	Items            []OrderItem     `db:"-" json:"items"`
	TotalAmount      float64         `db:"total_amount" json:"totalAmount"`
	ShipName         string          `db:"ship_name" json:"-"`
	ShipEmail        string          `db:"ship_email" json:"-"`
	ShipAddress      string          `db:"ship_address" json:"-"`
	ShippingAddress  ShippingAddress `db:"-" json:"shippingAddress"`
	PaymentMethod    string          `db:"payment_method" json:"paymentMethod"`
	PaymentStatus    string          `db:"payment_status" json:"paymentStatus"`
	OrderStatus      string          `db:"order_status" json:"orderStatus"`
	UPITransactionID string          `db:"upi_transaction_id" json:"upiTransactionId,omitempty"`
	CreatedAt        string          `db:"created_at" json:"createdAt"`
}

// orderTransitions guards the order status machine:
// processing -> shipped -> delivered, with cancellation allowed any time
// before delivery. Delivered and cancelled are terminal.
var orderTransitions = map[string][]string{
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

func ValidPaymentMethod(m string) bool {
	return m == PayUPI || m == PayCOD
}
