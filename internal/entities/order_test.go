package entities_test

import (
	"testing"

	"marketplace/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanAdvanceTo(t *testing.T) {
	testCases := []struct {
		name string
		from entities.OrderStatus
		to   entities.OrderStatus
		want bool
	}{
		{"pending to confirmed", entities.StatusPending, entities.StatusConfirmed, true},
		{"confirmed to processing", entities.StatusConfirmed, entities.StatusProcessing, true},
		{"processing to shipped", entities.StatusProcessing, entities.StatusShipped, true},
		{"shipped to delivered", entities.StatusShipped, entities.StatusDelivered, true},
		{"pending skips to shipped", entities.StatusPending, entities.StatusShipped, false},
		{"shipped back to pending", entities.StatusShipped, entities.StatusPending, false},
		{"delivered to anything", entities.StatusDelivered, entities.StatusConfirmed, false},
		{"cancel from pending", entities.StatusPending, entities.StatusCancelled, true},
		{"cancel from processing", entities.StatusProcessing, entities.StatusCancelled, true},
		{"cancel from shipped", entities.StatusShipped, entities.StatusCancelled, true},
		{"cancel from delivered", entities.StatusDelivered, entities.StatusCancelled, false},
		{"cancel from cancelled", entities.StatusCancelled, entities.StatusCancelled, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanAdvanceTo(tc.to))
		})
	}
}

func TestOrder_SoldBy(t *testing.T) {
	order := entities.Order{Items: []entities.OrderItem{
		{ProductID: "p1", SellerID: "shop-1"},
		{ProductID: "p2", SellerID: "shop-2"},
	}}

	assert.True(t, order.SoldBy("shop-1"))
	assert.True(t, order.SoldBy("shop-2"))
	assert.False(t, order.SoldBy("shop-3"))
}

func TestNewPagination(t *testing.T) {
	p := entities.NewPagination(2, 12, 30)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 30, p.TotalCount)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = entities.NewPagination(1, 12, 5)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}
