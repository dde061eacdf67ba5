package service

import (
	"context"
	"testing"

	"marketplace/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	createFn    func(ctx context.Context, p entities.Product) error
	getFn       func(ctx context.Context, id string) (entities.Product, error)
	updateFn    func(ctx context.Context, p entities.Product) error
	setActiveFn func(ctx context.Context, id string, active bool) error
	deleteFn    func(ctx context.Context, id string) error
	listFn      func(ctx context.Context, f entities.ProductFilter) ([]entities.Product, int, error)
	byOwnerFn   func(ctx context.Context, ownerID string, page, limit int) ([]entities.Product, int, error)
	featuredFn  func(ctx context.Context, limit int) ([]entities.Product, error)
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, p entities.Product) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, p)
}

func (f *fakeProductRepo) GetProduct(ctx context.Context, id string) (entities.Product, error) {
	return f.getFn(ctx, id)
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, p entities.Product) error {
	if f.updateFn == nil {
		return nil
	}
	return f.updateFn(ctx, p)
}

func (f *fakeProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	if f.setActiveFn == nil {
		return nil
	}
	return f.setActiveFn(ctx, id, active)
}

func (f *fakeProductRepo) DeleteProduct(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, flt entities.ProductFilter) ([]entities.Product, int, error) {
	return f.listFn(ctx, flt)
}

func (f *fakeProductRepo) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]entities.Product, int, error) {
	return f.byOwnerFn(ctx, ownerID, page, limit)
}

func (f *fakeProductRepo) FeaturedProducts(ctx context.Context, limit int) ([]entities.Product, error) {
	return f.featuredFn(ctx, limit)
}

type memCache struct {
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(key string, value []byte) {
	c.data[key] = value
}

func (c *memCache) Delete(key string) {
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("caches after a repo hit", func(t *testing.T) {
		calls := 0
		repo := &fakeProductRepo{
			getFn: func(_ context.Context, id string) (entities.Product, error) {
				calls++
				return testProduct(id, 1000, 3), nil
			},
		}
		c := newMemCache()
		svc := NewProductService(discardLogger(), repo, c)

		first, err := svc.Get(ctx, "p1")
		require.NoError(t, err)
		second, err := svc.Get(ctx, "p1")
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first, second)
	})

	t.Run("inactive product reads as missing", func(t *testing.T) {
		repo := &fakeProductRepo{
			getFn: func(_ context.Context, id string) (entities.Product, error) {
				p := testProduct(id, 1000, 3)
				p.Active = false
				return p, nil
			},
		}
		svc := NewProductService(discardLogger(), repo, newMemCache())

		_, err := svc.Get(ctx, "p1")
		assert.ErrorIs(t, err, entities.ErrProductNotFound)
	})

	t.Run("not found is not retried", func(t *testing.T) {
		calls := 0
		repo := &fakeProductRepo{
			getFn: func(context.Context, string) (entities.Product, error) {
				calls++
				return entities.Product{}, entities.ErrProductNotFound
			},
		}
		svc := NewProductService(discardLogger(), repo, newMemCache())

		_, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, entities.ErrProductNotFound)
		assert.Equal(t, 1, calls)
	})
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	var saved entities.Product
	repo := &fakeProductRepo{
		createFn: func(_ context.Context, p entities.Product) error {
			saved = p
			return nil
		},
	}
	svc := NewProductService(discardLogger(), repo, newMemCache())

	owner := entities.Account{
		ID:   "seller-1",
		Role: entities.RoleShopOwner,
		Shop: &entities.ShopProfile{Name: "Bob's Books"},
	}
	product, err := svc.Create(ctx, owner, ProductParams{
		Name:        "Go in Practice",
		Description: "Second hand, good condition",
		Price:       2599,
		Category:    entities.CategoryBooks,
		Stock:       4,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "seller-1", saved.OwnerID)
	assert.Equal(t, "Bob's Books", saved.ShopName)
	assert.True(t, saved.Active)
	assert.Equal(t, int64(2599), saved.Price)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	newRepo := func(saved *entities.Product) *fakeProductRepo {
		return &fakeProductRepo{
			getFn: func(_ context.Context, id string) (entities.Product, error) {
				return testProduct(id, 1000, 3), nil
			},
			updateFn: func(_ context.Context, p entities.Product) error {
				if saved != nil {
					*saved = p
				}
				return nil
			},
		}
	}

	t.Run("owner applies a partial update", func(t *testing.T) {
		var saved entities.Product
		c := newMemCache()
		svc := NewProductService(discardLogger(), newRepo(&saved), c)

		price := int64(1500)
		product, err := svc.Update(ctx, "seller-1", "p1", ProductUpdate{Price: &price})
		require.NoError(t, err)

		assert.Equal(t, int64(1500), product.Price)
		assert.Equal(t, "Product p1", saved.Name)
		assert.Contains(t, c.deleted, "p1")
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		svc := NewProductService(discardLogger(), newRepo(nil), newMemCache())

		price := int64(1500)
		_, err := svc.Update(ctx, "intruder", "p1", ProductUpdate{Price: &price})
		assert.ErrorIs(t, err, entities.ErrNotProductOwner)
	})
}

func TestProductService_ToggleActive(t *testing.T) {
	ctx := context.Background()

	var setTo *bool
	repo := &fakeProductRepo{
		getFn: func(_ context.Context, id string) (entities.Product, error) {
			return testProduct(id, 1000, 3), nil
		},
		setActiveFn: func(_ context.Context, _ string, active bool) error {
			setTo = &active
			return nil
		},
	}
	svc := NewProductService(discardLogger(), repo, newMemCache())

	product, err := svc.ToggleActive(ctx, "seller-1", "p1")
	require.NoError(t, err)
	assert.False(t, product.Active)
	require.NotNil(t, setTo)
	assert.False(t, *setTo)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes and invalidates the cache", func(t *testing.T) {
		var deleted string
		repo := &fakeProductRepo{
			getFn: func(_ context.Context, id string) (entities.Product, error) {
				return testProduct(id, 1000, 3), nil
			},
			deleteFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		c := newMemCache()
		svc := NewProductService(discardLogger(), repo, c)

		require.NoError(t, svc.Delete(ctx, "seller-1", "p1"))
		assert.Equal(t, "p1", deleted)
		assert.Contains(t, c.deleted, "p1")
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		repo := &fakeProductRepo{
			getFn: func(_ context.Context, id string) (entities.Product, error) {
				return testProduct(id, 1000, 3), nil
			},
			deleteFn: func(context.Context, string) error {
				t.Fatal("delete must not be called")
				return nil
			},
		}
		svc := NewProductService(discardLogger(), repo, newMemCache())

		err := svc.Delete(ctx, "intruder", "p1")
		assert.ErrorIs(t, err, entities.ErrNotProductOwner)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	repo := &fakeProductRepo{
		listFn: func(_ context.Context, f entities.ProductFilter) ([]entities.Product, int, error) {
			assert.Equal(t, entities.CategoryBooks, f.Category)
			return []entities.Product{testProduct("p1", 1000, 3)}, 25, nil
		},
	}
	svc := NewProductService(discardLogger(), repo, newMemCache())

	products, pagination, err := svc.List(ctx, entities.ProductFilter{
		Page:     2,
		Limit:    12,
		Category: entities.CategoryBooks,
	})
	require.NoError(t, err)

	assert.Len(t, products, 1)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, 25, pagination.TotalCount)
	assert.True(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
}
