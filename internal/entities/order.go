package entities

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// fulfilment moves one step at a time
var nextStatus = map[OrderStatus]OrderStatus{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// CanAdvanceTo reports whether a seller may move the order from s to next.
// Cancellation is allowed from any non-terminal state; customers are held to
// the stricter pending-only rule at the service layer.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if next == StatusCancelled {
		return !s.Terminal()
	}
	return nextStatus[s] == next
}

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentDebitCard      PaymentMethod = "debit_card"
	PaymentPaypal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPaypal, PaymentCashOnDelivery:
		return true
	}
	return false
}

type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// OrderItem carries a snapshot of the product at order time: the unit price
// and seller are frozen, not live references. ProductName and ProductImage
// are filled in on reads for presentation.
type OrderItem struct {
	ProductID    string
	ProductName  string
	ProductImage string
	Quantity     int
	UnitPrice    int64
	SellerID     string
	SellerName   string
}

type Order struct {
	ID              string
	CustomerID      string
	CustomerName    string
	CustomerEmail   string
	Items           []OrderItem
	ShippingAddress Address
	BillingAddress  Address
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	Subtotal        int64
	Tax             int64
	Shipping        int64
	Total           int64
	Notes           string

	TrackingNumber     string
	EstimatedDelivery  *time.Time
	CancelledAt        *time.Time
	CancelledBy        string
	CancellationReason string

	CreatedAt time.Time
}

// SoldBy reports whether the account sells at least one line item.
func (o Order) SoldBy(accountID string) bool {
	for _, item := range o.Items {
		if item.SellerID == accountID {
			return true
		}
	}
	return false
}

type ShopStatistics struct {
	TotalOrders    int
	MonthlyOrders  int
	YearlyOrders   int
	PendingOrders  int
	TotalRevenue   int64
	MonthlyRevenue int64
	YearlyRevenue  int64
}
