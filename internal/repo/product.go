package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var productColumns = []string{
	"product_id", "owner_id", "shop_name", "name", "description",
	"price", "original_price", "images", "category", "brand", "tags",
	"stock", "active", "featured", "rating_average", "rating_count", "created_at",
}

type productRepo struct {
	base
}

func NewProductRepo(db *sqlx.DB) *productRepo {
	return &productRepo{base: newBase(db)}
}

func (r *productRepo) CreateProduct(ctx context.Context, p entities.Product) error {
	query, args := r.qb.Insert("products").
		Columns(productColumns...).
		Values(
			p.ID, p.OwnerID, p.ShopName, p.Name, p.Description,
			p.Price, nullInt64(p.OriginalPrice), pq.StringArray(p.Images),
			string(p.Category), nullString(p.Brand), pq.StringArray(p.Tags),
			p.Stock, p.Active, p.Featured, p.Rating.Average, p.Rating.Count, p.CreatedAt,
		).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetProduct(ctx context.Context, id string) (entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"product_id": id}).
		MustSql()

	var product Product
	err := r.getContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(product), nil
}

func (r *productRepo) GetProductsByIDs(ctx context.Context, ids []string) ([]entities.Product, error) {
	if len(ids) == 0 {
		return []entities.Product{}, nil
	}

	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"product_id": ids}).
		MustSql()

	var products []Product
	if err := r.selectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, nil
}

func (r *productRepo) UpdateProduct(ctx context.Context, p entities.Product) error {
	query, args := r.qb.Update("products").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("price", p.Price).
		Set("original_price", nullInt64(p.OriginalPrice)).
		Set("images", pq.StringArray(p.Images)).
		Set("category", string(p.Category)).
		Set("brand", nullString(p.Brand)).
		Set("tags", pq.StringArray(p.Tags)).
		Set("stock", p.Stock).
		Set("featured", p.Featured).
		Where(sq.Eq{"product_id": p.ID}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *productRepo) SetActive(ctx context.Context, id string, active bool) error {
	query, args := r.qb.Update("products").
		Set("active", active).
		Where(sq.Eq{"product_id": id}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set product active flag: %w", err)
	}
	return nil
}

func (r *productRepo) DeleteProduct(ctx context.Context, id string) error {
	query, args := r.qb.Delete("products").
		Where(sq.Eq{"product_id": id}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// DecrementStock takes qty units off the shelf only if they are still there.
// The guard makes concurrent placements race-safe: the condition and the
// decrement are a single statement, so of two orders competing for the last
// units exactly one wins.
func (r *productRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	query, args := r.qb.Update("products").
		Set("stock", sq.Expr("stock - ?", qty)).
		Where(sq.Eq{"product_id": id}).
		Where(sq.Expr("stock >= ?", qty)).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) ListProducts(ctx context.Context, f entities.ProductFilter) ([]entities.Product, int, error) {
	conds := []sq.Sqlizer{sq.Eq{"active": true}}
	if f.Category != "" {
		conds = append(conds, sq.Eq{"category": string(f.Category)})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
			sq.Expr("array_to_string(tags, ' ') ILIKE ?", pattern),
		})
	}
	if f.MinPrice > 0 {
		conds = append(conds, sq.GtOrEq{"price": f.MinPrice})
	}
	if f.MaxPrice > 0 {
		conds = append(conds, sq.LtOrEq{"price": f.MaxPrice})
	}

	q := r.qb.Select(productColumns...).
		From("products").
		OrderBy(orderClause(f.Sort)).
		Offset(uint64((f.Page - 1) * f.Limit)).
		Limit(uint64(f.Limit))
	for _, c := range conds {
		q = q.Where(c)
	}

	query, args := q.MustSql()
	var products []Product
	if err := r.selectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select products: %w", err)
	}

	total, err := r.countProducts(ctx, conds)
	if err != nil {
		return nil, 0, err
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, total, nil
}

func orderClause(sort entities.ProductSort) string {
	switch sort {
	case entities.SortPriceAsc:
		return "price ASC"
	case entities.SortPriceDesc:
		return "price DESC"
	case entities.SortRating:
		return "rating_average DESC"
	default:
		return "created_at DESC"
	}
}

func (r *productRepo) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]entities.Product, int, error) {
	conds := []sq.Sqlizer{sq.Eq{"owner_id": ownerID}}

	q := r.qb.Select(productColumns...).
		From("products").
		Where(conds[0]).
		OrderBy("created_at DESC").
		Offset(uint64((page - 1) * limit)).
		Limit(uint64(limit))

	query, args := q.MustSql()
	var products []Product
	if err := r.selectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select owner products: %w", err)
	}

	total, err := r.countProducts(ctx, conds)
	if err != nil {
		return nil, 0, err
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, total, nil
}

func (r *productRepo) FeaturedProducts(ctx context.Context, limit int) ([]entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"active": true, "featured": true}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		MustSql()

	var products []Product
	if err := r.selectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select featured products: %w", err)
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, nil
}

func (r *productRepo) countProducts(ctx context.Context, conds []sq.Sqlizer) (int, error) {
	q := r.qb.Select("COUNT(*)").From("products")
	for _, c := range conds {
		q = q.Where(c)
	}

	query, args := q.MustSql()
	var total int
	if err := r.getContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}
