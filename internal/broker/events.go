package broker

import (
	"time"

	"marketplace/internal/entities"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Status     string          `json:"status"`
	Total      int64           `json:"total"`
	Items      []OrderItemInfo `json:"items,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type OrderItemInfo struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	SellerID  string `json:"seller_id"`
}

func orderEvent(eventType string, o entities.Order) OrderEvent {
	ev := OrderEvent{
		Type:       eventType,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Total:      o.Total,
		OccurredAt: time.Now().UTC(),
	}
	if eventType == EventOrderCreated {
		ev.Items = make([]OrderItemInfo, 0, len(o.Items))
		for _, item := range o.Items {
			ev.Items = append(ev.Items, OrderItemInfo{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				SellerID:  item.SellerID,
			})
		}
	}
	return ev
}
