package order

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

type ShippingAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order is created once per confirmed payment. PaymentReference is the
// processor's id for the payment and is unique across orders. UserID is the
// account that checked out; guest orders have none and no account can list
// them.
type Order struct {
	ID               string           `json:"id"`
	OrderNumber      string           `json:"orderNumber"`
	UserID           int              `json:"-"`
	CustomerEmail    string           `json:"customerEmail"`
	CustomerName     string           `json:"customerName"`
	AmountTotal      int64            `json:"amountTotal"`
	Currency         string           `json:"currency"`
	Status           Status           `json:"status"`
	DeliveryMethod   string           `json:"deliveryMethod"`
	PaymentReference string           `json:"paymentReference"`
	Shipping         *ShippingAddress `json:"shippingAddress,omitempty"`
	Items            []OrderItem      `json:"items"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// OrderItem snapshots the product as it was sold. Later catalog changes do
// not touch it.
type OrderItem struct {
	ID              int64  `json:"id"`
	OrderID         string `json:"orderId"`
	ProductID       string `json:"productId"`
	ProductName     string `json:"productName"`
	PriceAtPurchase int64  `json:"priceAtPurchase"`
	Quantity        int    `json:"quantity"`
}

// ItemsTotal is the merchandise value of the snapshotted lines.
func (o Order) ItemsTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.PriceAtPurchase * int64(it.Quantity)
	}
	return total
}
