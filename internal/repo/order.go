package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// orderColumns qualified with the orders alias; every order select joins the
// customer account for the expanded view.
var orderSelectColumns = []string{
	"o.order_id", "o.customer_id",
	"a.name AS customer_name", "a.email AS customer_email",
	"o.shipping_street", "o.shipping_city", "o.shipping_state",
	"o.shipping_zip_code", "o.shipping_country",
	"o.billing_street", "o.billing_city", "o.billing_state",
	"o.billing_zip_code", "o.billing_country",
	"o.payment_method", "o.status",
	"o.subtotal", "o.tax", "o.shipping_cost", "o.total", "o.notes",
	"o.tracking_number", "o.estimated_delivery",
	"o.cancelled_at", "o.cancelled_by", "o.cancellation_reason",
	"o.created_at",
}

var orderItemSelectColumns = []string{
	"oi.order_id", "oi.product_id",
	"COALESCE(p.name, '') AS product_name",
	"COALESCE(p.images[1], '') AS product_image",
	"oi.quantity", "oi.unit_price", "oi.seller_id", "oi.seller_name",
}

type orderRepo struct {
	base
}

func NewOrderRepo(db *sqlx.DB) *orderRepo {
	return &orderRepo{base: newBase(db)}
}

func (r *orderRepo) CreateOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns(
			"order_id", "customer_id",
			"shipping_street", "shipping_city", "shipping_state",
			"shipping_zip_code", "shipping_country",
			"billing_street", "billing_city", "billing_state",
			"billing_zip_code", "billing_country",
			"payment_method", "status",
			"subtotal", "tax", "shipping_cost", "total", "notes",
			"created_at",
		).
		Values(
			o.ID, o.CustomerID,
			o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.State,
			o.ShippingAddress.ZipCode, o.ShippingAddress.Country,
			o.BillingAddress.Street, o.BillingAddress.City, o.BillingAddress.State,
			o.BillingAddress.ZipCode, o.BillingAddress.Country,
			string(o.PaymentMethod), string(o.Status),
			o.Subtotal, o.Tax, o.Shipping, o.Total, nullString(o.Notes),
			o.CreatedAt,
		).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	if len(o.Items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_id", "product_id", "quantity", "unit_price", "seller_id", "seller_name")
	for _, it := range o.Items {
		q = q.Values(o.ID, it.ProductID, it.Quantity, it.UnitPrice, it.SellerID, it.SellerName)
	}

	query, args = q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save order items: %w", err)
	}
	return nil
}

func (r *orderRepo) GetOrder(ctx context.Context, id string) (entities.Order, error) {
	query, args := r.qb.Select(orderSelectColumns...).
		From("orders o").
		Join("accounts a ON a.account_id = o.customer_id").
		Where(sq.Eq{"o.order_id": id}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.itemsForOrders(ctx, []string{id})
	if err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, items[id]), nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID string, f entities.OrderFilter) ([]entities.Order, int, error) {
	conds := []sq.Sqlizer{sq.Eq{"o.customer_id": customerID}}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"o.status": string(f.Status)})
	}
	return r.listOrders(ctx, conds, f.Page, f.Limit)
}

func (r *orderRepo) ListBySeller(ctx context.Context, sellerID string, f entities.OrderFilter) ([]entities.Order, int, error) {
	conds := []sq.Sqlizer{sellerCond(sellerID)}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"o.status": string(f.Status)})
	}
	return r.listOrders(ctx, conds, f.Page, f.Limit)
}

func sellerCond(sellerID string) sq.Sqlizer {
	return sq.Expr(
		"EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.order_id AND oi.seller_id = ?)",
		sellerID,
	)
}

// listOrders pages over the orders first, then fetches the line items for the
// page in one query.
func (r *orderRepo) listOrders(ctx context.Context, conds []sq.Sqlizer, page, limit int) ([]entities.Order, int, error) {
	q := r.qb.Select(orderSelectColumns...).
		From("orders o").
		Join("accounts a ON a.account_id = o.customer_id").
		OrderBy("o.created_at DESC").
		Offset(uint64((page - 1) * limit)).
		Limit(uint64(limit))
	for _, c := range conds {
		q = q.Where(c)
	}

	query, args := q.MustSql()
	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select orders: %w", err)
	}

	total, err := r.countOrders(ctx, conds)
	if err != nil {
		return nil, 0, err
	}

	if len(orders) == 0 {
		return []entities.Order{}, total, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
	}

	itemsMap, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderToEntity(o, itemsMap[o.OrderID]))
	}
	return result, total, nil
}

func (r *orderRepo) itemsForOrders(ctx context.Context, orderIDs []string) (map[string][]OrderItem, error) {
	query, args := r.qb.Select(orderItemSelectColumns...).
		From("order_items oi").
		LeftJoin("products p ON p.product_id = oi.product_id").
		Where(sq.Eq{"oi.order_id": orderIDs}).
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}

	itemsMap := make(map[string][]OrderItem, len(orderIDs))
	for _, it := range items {
		itemsMap[it.OrderID] = append(itemsMap[it.OrderID], it)
	}
	return itemsMap, nil
}

func (r *orderRepo) countOrders(ctx context.Context, conds []sq.Sqlizer) (int, error) {
	q := r.qb.Select("COUNT(*)").From("orders o")
	for _, c := range conds {
		q = q.Where(c)
	}

	query, args := q.MustSql()
	var total int
	if err := r.getContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// UpdateStatus persists the fulfilment fields. Line items and totals are
// immutable after placement, so they are never touched here.
func (r *orderRepo) UpdateStatus(ctx context.Context, o entities.Order) error {
	var estimated, cancelledAt sql.NullTime
	if o.EstimatedDelivery != nil {
		estimated = sql.NullTime{Time: *o.EstimatedDelivery, Valid: true}
	}
	if o.CancelledAt != nil {
		cancelledAt = sql.NullTime{Time: *o.CancelledAt, Valid: true}
	}

	query, args := r.qb.Update("orders").
		Set("status", string(o.Status)).
		Set("tracking_number", nullString(o.TrackingNumber)).
		Set("estimated_delivery", estimated).
		Set("cancelled_at", cancelledAt).
		Set("cancelled_by", nullString(o.CancelledBy)).
		Set("cancellation_reason", nullString(o.CancellationReason)).
		Where(sq.Eq{"order_id": o.ID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}

// CountBySeller counts orders containing the seller's items, optionally
// bounded by creation time and status set.
func (r *orderRepo) CountBySeller(ctx context.Context, sellerID string, since time.Time, statuses []entities.OrderStatus) (int, error) {
	conds := []sq.Sqlizer{sellerCond(sellerID)}
	if !since.IsZero() {
		conds = append(conds, sq.GtOrEq{"o.created_at": since})
	}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		conds = append(conds, sq.Eq{"o.status": values})
	}
	return r.countOrders(ctx, conds)
}

// SumRevenueBySeller totals price*quantity of the seller's line items over
// non-cancelled orders.
func (r *orderRepo) SumRevenueBySeller(ctx context.Context, sellerID string, since time.Time) (int64, error) {
	q := r.qb.Select("COALESCE(SUM(oi.unit_price * oi.quantity), 0)").
		From("order_items oi").
		Join("orders o ON o.order_id = oi.order_id").
		Where(sq.Eq{"oi.seller_id": sellerID}).
		Where(sq.NotEq{"o.status": string(entities.StatusCancelled)})
	if !since.IsZero() {
		q = q.Where(sq.GtOrEq{"o.created_at": since})
	}

	query, args := q.MustSql()
	var total int64
	if err := r.getContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}
