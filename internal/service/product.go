package service

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/entities"
	"marketplace/pkg/utils"

	"github.com/google/uuid"
)

type ProductRepo interface {
	CreateProduct(ctx context.Context, p entities.Product) error
	GetProduct(ctx context.Context, id string) (entities.Product, error)
	UpdateProduct(ctx context.Context, p entities.Product) error
	SetActive(ctx context.Context, id string, active bool) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, f entities.ProductFilter) ([]entities.Product, int, error)
	ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]entities.Product, int, error)
	FeaturedProducts(ctx context.Context, limit int) ([]entities.Product, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

const featuredLimit = 8

type productService struct {
	logger *slog.Logger
	repo   ProductRepo
	cache  Cache
}

func NewProductService(logger *slog.Logger, repo ProductRepo, cache Cache) *productService {
	return &productService{
		logger: logger.With(slog.String("service", "product")),
		repo:   repo,
		cache:  cache,
	}
}

func (s *productService) List(ctx context.Context, f entities.ProductFilter) ([]entities.Product, entities.Pagination, error) {
	products, total, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return products, entities.NewPagination(f.Page, f.Limit, total), nil
}

func (s *productService) Featured(ctx context.Context) ([]entities.Product, error) {
	return s.repo.FeaturedProducts(ctx, featuredLimit)
}

// Get serves the public product page. Inactive products are hidden from it,
// so a delisted item looks exactly like a missing one.
func (s *productService) Get(ctx context.Context, id string) (entities.Product, error) {
	if data, ok := s.cache.Get(id); ok {
		var product entities.Product
		if err := product.Unmarshal(data); err == nil {
			if !product.Active {
				return entities.Product{}, entities.ErrProductNotFound
			}
			return product, nil
		}
		s.cache.Delete(id)
	}

	var product entities.Product
	err := utils.Retry(utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
	}, func() (err error) {
		product, err = s.repo.GetProduct(ctx, id)
		return err
	}, entities.ErrProductNotFound)
	if err != nil {
		return entities.Product{}, err
	}

	if data, err := product.Marshal(); err == nil {
		s.cache.Set(id, data)
	}

	if !product.Active {
		return entities.Product{}, entities.ErrProductNotFound
	}
	return product, nil
}

type ProductParams struct {
	Name          string
	Description   string
	Price         int64
	OriginalPrice int64
	Images        []string
	Category      entities.Category
	Brand         string
	Tags          []string
	Stock         int
	Featured      bool
}

func (s *productService) Create(ctx context.Context, owner entities.Account, p ProductParams) (entities.Product, error) {
	product := entities.Product{
		ID:            uuid.NewString(),
		OwnerID:       owner.ID,
		ShopName:      owner.ShopName(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Images:        p.Images,
		Category:      p.Category,
		Brand:         p.Brand,
		Tags:          p.Tags,
		Stock:         p.Stock,
		Active:        true,
		Featured:      p.Featured,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return entities.Product{}, err
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID), slog.String("owner_id", owner.ID))

	return product, nil
}

type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *int64
	OriginalPrice *int64
	Images        *[]string
	Category      *entities.Category
	Brand         *string
	Tags          *[]string
	Stock         *int
	Featured      *bool
}

func (s *productService) Update(ctx context.Context, ownerID, id string, upd ProductUpdate) (entities.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return entities.Product{}, err
	}
	if product.OwnerID != ownerID {
		return entities.Product{}, entities.ErrNotProductOwner
	}

	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.OriginalPrice != nil {
		product.OriginalPrice = *upd.OriginalPrice
	}
	if upd.Images != nil {
		product.Images = *upd.Images
	}
	if upd.Category != nil {
		product.Category = *upd.Category
	}
	if upd.Brand != nil {
		product.Brand = *upd.Brand
	}
	if upd.Tags != nil {
		product.Tags = *upd.Tags
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.Featured != nil {
		product.Featured = *upd.Featured
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return entities.Product{}, err
	}
	s.cache.Delete(id)
	return product, nil
}

func (s *productService) ToggleActive(ctx context.Context, ownerID, id string) (entities.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return entities.Product{}, err
	}
	if product.OwnerID != ownerID {
		return entities.Product{}, entities.ErrNotProductOwner
	}

	product.Active = !product.Active
	if err := s.repo.SetActive(ctx, id, product.Active); err != nil {
		return entities.Product{}, err
	}
	s.cache.Delete(id)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, ownerID, id string) error {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if product.OwnerID != ownerID {
		return entities.ErrNotProductOwner
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(id)

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id), slog.String("owner_id", ownerID))
	return nil
}

// ListMine returns the owner's full inventory, inactive products included.
func (s *productService) ListMine(ctx context.Context, ownerID string, page, limit int) ([]entities.Product, entities.Pagination, error) {
	products, total, err := s.repo.ListByOwner(ctx, ownerID, page, limit)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return products, entities.NewPagination(page, limit, total), nil
}
