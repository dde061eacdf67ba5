package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/entities"
	"marketplace/pkg/trm"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, o entities.Order) error
	GetOrder(ctx context.Context, id string) (entities.Order, error)
	ListByCustomer(ctx context.Context, customerID string, f entities.OrderFilter) ([]entities.Order, int, error)
	ListBySeller(ctx context.Context, sellerID string, f entities.OrderFilter) ([]entities.Order, int, error)
	UpdateStatus(ctx context.Context, o entities.Order) error
	CountBySeller(ctx context.Context, sellerID string, since time.Time, statuses []entities.OrderStatus) (int, error)
	SumRevenueBySeller(ctx context.Context, sellerID string, since time.Time) (int64, error)
}

type StockRepo interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]entities.Product, error)
	DecrementStock(ctx context.Context, id string, qty int) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o entities.Order) error
	PublishOrderStatusChanged(ctx context.Context, o entities.Order) error
}

type CacheInvalidator interface {
	Delete(key string)
}

// flat business rules, all amounts in cents: 10% tax, $10 shipping waived
// above $100.
const (
	freeShippingThreshold = 100_00
	flatShippingCost      = 10_00
)

func taxFor(subtotal int64) int64 {
	return (subtotal + 5) / 10
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	orders    OrderRepo
	stock     StockRepo
	events    EventPublisher
	cache     CacheInvalidator
}

func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	orders OrderRepo,
	stock StockRepo,
	events EventPublisher,
	cache CacheInvalidator,
) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		orders:    orders,
		stock:     stock,
		events:    events,
		cache:     cache,
	}
}

type LineItemRequest struct {
	ProductID string
	Quantity  int
}

type PlaceOrderParams struct {
	CustomerID      string
	Items           []LineItemRequest
	ShippingAddress entities.Address
	BillingAddress  *entities.Address
	PaymentMethod   entities.PaymentMethod
	Notes           string
}

// Place validates every requested line item, freezes unit prices and seller
// identity, computes the totals and persists the order with its stock
// decrements in a single transaction. The first violation aborts the whole
// batch; nothing is written until every item has passed validation, and a
// stock decrement that comes up short inside the transaction rolls the order
// back entirely.
func (s *orderService) Place(ctx context.Context, p PlaceOrderParams) (entities.Order, error) {
	ids := make([]string, 0, len(p.Items))
	seen := make(map[string]struct{}, len(p.Items))
	for _, item := range p.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.stock.GetProductsByIDs(ctx, ids)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[string]entities.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	items := make([]entities.OrderItem, 0, len(p.Items))
	var subtotal int64
	for _, req := range p.Items {
		product, ok := byID[req.ProductID]
		if !ok {
			ordersRejected.WithLabelValues("product_not_found").Inc()
			return entities.Order{}, fmt.Errorf("product %s: %w", req.ProductID, entities.ErrProductNotFound)
		}
		if !product.Active {
			ordersRejected.WithLabelValues("product_unavailable").Inc()
			return entities.Order{}, fmt.Errorf("product %s: %w", product.Name, entities.ErrProductUnavailable)
		}
		if product.Stock < req.Quantity {
			ordersRejected.WithLabelValues("insufficient_stock").Inc()
			return entities.Order{}, fmt.Errorf("product %s: %w", product.Name, entities.ErrInsufficientStock)
		}

		item := entities.OrderItem{
			ProductID:  product.ID,
			Quantity:   req.Quantity,
			UnitPrice:  product.Price,
			SellerID:   product.OwnerID,
			SellerName: product.ShopName,

			ProductName: product.Name,
		}
		if len(product.Images) > 0 {
			item.ProductImage = product.Images[0]
		}
		items = append(items, item)

		subtotal += product.Price * int64(req.Quantity)
	}

	tax := taxFor(subtotal)
	shipping := int64(flatShippingCost)
	if subtotal > freeShippingThreshold {
		shipping = 0
	}

	billing := p.ShippingAddress
	if p.BillingAddress != nil {
		billing = *p.BillingAddress
	}

	order := entities.Order{
		ID:              uuid.NewString(),
		CustomerID:      p.CustomerID,
		Items:           items,
		ShippingAddress: p.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   p.PaymentMethod,
		Status:          entities.StatusPending,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           subtotal + tax + shipping,
		Notes:           p.Notes,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.orders.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := s.stock.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, entities.ErrInsufficientStock) {
			ordersRejected.WithLabelValues("insufficient_stock").Inc()
		}
		return entities.Order{}, err
	}
	ordersPlaced.Inc()

	for _, item := range order.Items {
		s.cache.Delete(item.ProductID)
	}

	if err := s.events.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order created event",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.Int64("total", order.Total),
		slog.Int("items", len(order.Items)))

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string, actor entities.Account) (entities.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}

	isCustomer := order.CustomerID == actor.ID
	if !isCustomer && !order.SoldBy(actor.ID) && actor.Role != entities.RoleAdmin {
		return entities.Order{}, entities.ErrOrderAccessDenied
	}
	return order, nil
}

func (s *orderService) ListForCustomer(ctx context.Context, customerID string, f entities.OrderFilter) ([]entities.Order, entities.Pagination, error) {
	orders, total, err := s.orders.ListByCustomer(ctx, customerID, f)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return orders, entities.NewPagination(f.Page, f.Limit, total), nil
}

func (s *orderService) ListForShop(ctx context.Context, sellerID string, f entities.OrderFilter) ([]entities.Order, entities.Pagination, error) {
	orders, total, err := s.orders.ListBySeller(ctx, sellerID, f)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return orders, entities.NewPagination(f.Page, f.Limit, total), nil
}

type AdvanceStatusParams struct {
	OrderID            string
	ActorID            string
	Status             entities.OrderStatus
	TrackingNumber     string
	EstimatedDelivery  *time.Time
	CancellationReason string
}

// AdvanceStatus moves an order along the fulfilment chain. Only a shop owner
// selling in the order may call it. Forward moves follow the chain one step
// at a time; cancellation is allowed from any non-terminal state, which is
// deliberately looser than the customer-side rule.
func (s *orderService) AdvanceStatus(ctx context.Context, p AdvanceStatusParams) (entities.Order, error) {
	order, err := s.orders.GetOrder(ctx, p.OrderID)
	if err != nil {
		return entities.Order{}, err
	}

	if !order.SoldBy(p.ActorID) {
		return entities.Order{}, entities.ErrNotOrderSeller
	}
	if !order.Status.CanAdvanceTo(p.Status) {
		return entities.Order{}, fmt.Errorf("%s to %s: %w", order.Status, p.Status, entities.ErrInvalidTransition)
	}

	order.Status = p.Status
	if p.TrackingNumber != "" {
		order.TrackingNumber = p.TrackingNumber
	}
	if p.EstimatedDelivery != nil {
		order.EstimatedDelivery = p.EstimatedDelivery
	}
	if p.Status == entities.StatusCancelled {
		now := time.Now().UTC()
		order.CancelledAt = &now
		order.CancelledBy = p.ActorID
		order.CancellationReason = p.CancellationReason
	}

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return entities.Order{}, err
	}

	if err := s.events.PublishOrderStatusChanged(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish status change event",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}

	return order, nil
}

// Cancel is the customer-side escape hatch. It works only while the order is
// still pending and never restores stock.
func (s *orderService) Cancel(ctx context.Context, orderID, customerID, reason string) (entities.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	if order.CustomerID != customerID {
		return entities.Order{}, entities.ErrNotOrderCustomer
	}
	if order.Status != entities.StatusPending {
		return entities.Order{}, entities.ErrOrderNotCancellable
	}

	now := time.Now().UTC()
	order.Status = entities.StatusCancelled
	order.CancelledAt = &now
	order.CancelledBy = customerID
	order.CancellationReason = reason

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return entities.Order{}, err
	}

	if err := s.events.PublishOrderStatusChanged(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish status change event",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}

	return order, nil
}

// Statistics runs the count and revenue aggregates concurrently; each one
// writes a distinct field.
func (s *orderService) Statistics(ctx context.Context, sellerID string) (entities.ShopStatistics, error) {
	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var stats entities.ShopStatistics
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalOrders, err = s.orders.CountBySeller(ctx, sellerID, time.Time{}, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.MonthlyOrders, err = s.orders.CountBySeller(ctx, sellerID, startOfMonth, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.YearlyOrders, err = s.orders.CountBySeller(ctx, sellerID, startOfYear, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingOrders, err = s.orders.CountBySeller(ctx, sellerID, time.Time{},
			[]entities.OrderStatus{entities.StatusPending, entities.StatusConfirmed})
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.orders.SumRevenueBySeller(ctx, sellerID, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		stats.MonthlyRevenue, err = s.orders.SumRevenueBySeller(ctx, sellerID, startOfMonth)
		return err
	})
	g.Go(func() (err error) {
		stats.YearlyRevenue, err = s.orders.SumRevenueBySeller(ctx, sellerID, startOfYear)
		return err
	})

	if err := g.Wait(); err != nil {
		return entities.ShopStatistics{}, fmt.Errorf("failed to collect shop statistics: %w", err)
	}
	return stats, nil
}
