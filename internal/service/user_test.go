package service

import (
	"context"
	"testing"

	"marketplace/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byIDFn     func(ctx context.Context, id string) (entities.Account, error)
	listFn     func(ctx context.Context, f entities.AccountFilter) ([]entities.Account, int, error)
	shopsFn    func(ctx context.Context, f entities.ShopFilter) ([]entities.Account, int, error)
	roleFn     func(ctx context.Context, id string, role entities.Role) error
	verifiedFn func(ctx context.Context, id string) error
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeUserRepo) GetAccountByID(ctx context.Context, id string) (entities.Account, error) {
	return f.byIDFn(ctx, id)
}

func (f *fakeUserRepo) ListAccounts(ctx context.Context, flt entities.AccountFilter) ([]entities.Account, int, error) {
	return f.listFn(ctx, flt)
}

func (f *fakeUserRepo) ListShops(ctx context.Context, flt entities.ShopFilter) ([]entities.Account, int, error) {
	return f.shopsFn(ctx, flt)
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id string, role entities.Role) error {
	if f.roleFn == nil {
		return nil
	}
	return f.roleFn(ctx, id, role)
}

func (f *fakeUserRepo) SetVerified(ctx context.Context, id string) error {
	if f.verifiedFn == nil {
		return nil
	}
	return f.verifiedFn(ctx, id)
}

func (f *fakeUserRepo) DeleteAccount(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a consumer", func(t *testing.T) {
		var deleted string
		repo := &fakeUserRepo{
			byIDFn: func(_ context.Context, id string) (entities.Account, error) {
				return entities.Account{ID: id, Role: entities.RoleConsumer}, nil
			},
			deleteFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		svc := NewUserService(discardLogger(), repo)

		require.NoError(t, svc.DeleteAccount(ctx, "acc-1"))
		assert.Equal(t, "acc-1", deleted)
	})

	t.Run("refuses to delete an admin", func(t *testing.T) {
		repo := &fakeUserRepo{
			byIDFn: func(_ context.Context, id string) (entities.Account, error) {
				return entities.Account{ID: id, Role: entities.RoleAdmin}, nil
			},
			deleteFn: func(context.Context, string) error {
				t.Fatal("delete must not be called")
				return nil
			},
		}
		svc := NewUserService(discardLogger(), repo)

		err := svc.DeleteAccount(ctx, "admin-1")
		assert.ErrorIs(t, err, entities.ErrAdminImmutable)
	})

	t.Run("missing account", func(t *testing.T) {
		repo := &fakeUserRepo{
			byIDFn: func(context.Context, string) (entities.Account, error) {
				return entities.Account{}, entities.ErrAccountNotFound
			},
		}
		svc := NewUserService(discardLogger(), repo)

		err := svc.DeleteAccount(ctx, "nope")
		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
	})
}

func TestUserService_VerifyShopOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies a shop owner", func(t *testing.T) {
		repo := &fakeUserRepo{
			byIDFn: func(_ context.Context, id string) (entities.Account, error) {
				return entities.Account{
					ID:   id,
					Role: entities.RoleShopOwner,
					Shop: &entities.ShopProfile{Name: "Bob's Books"},
				}, nil
			},
		}
		svc := NewUserService(discardLogger(), repo)

		account, err := svc.VerifyShopOwner(ctx, "acc-1")
		require.NoError(t, err)
		assert.True(t, account.Verified)
	})

	t.Run("consumer cannot be verified", func(t *testing.T) {
		repo := &fakeUserRepo{
			byIDFn: func(_ context.Context, id string) (entities.Account, error) {
				return entities.Account{ID: id, Role: entities.RoleConsumer}, nil
			},
			verifiedFn: func(context.Context, string) error {
				t.Fatal("verify must not be called")
				return nil
			},
		}
		svc := NewUserService(discardLogger(), repo)

		_, err := svc.VerifyShopOwner(ctx, "acc-1")
		assert.ErrorIs(t, err, entities.ErrNotShopOwner)
	})
}

func TestUserService_GetShop(t *testing.T) {
	ctx := context.Background()

	repo := &fakeUserRepo{
		byIDFn: func(_ context.Context, id string) (entities.Account, error) {
			switch id {
			case "shop-1":
				return entities.Account{ID: id, Role: entities.RoleShopOwner}, nil
			case "cust-1":
				return entities.Account{ID: id, Role: entities.RoleConsumer}, nil
			default:
				return entities.Account{}, entities.ErrAccountNotFound
			}
		},
	}
	svc := NewUserService(discardLogger(), repo)

	t.Run("returns a shop owner", func(t *testing.T) {
		shop, err := svc.GetShop(ctx, "shop-1")
		require.NoError(t, err)
		assert.Equal(t, "shop-1", shop.ID)
	})

	t.Run("consumer account looks like a missing shop", func(t *testing.T) {
		_, err := svc.GetShop(ctx, "cust-1")
		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	var updatedRole entities.Role
	repo := &fakeUserRepo{
		roleFn: func(_ context.Context, _ string, role entities.Role) error {
			updatedRole = role
			return nil
		},
		byIDFn: func(_ context.Context, id string) (entities.Account, error) {
			return entities.Account{ID: id, Role: updatedRole}, nil
		},
	}
	svc := NewUserService(discardLogger(), repo)

	account, err := svc.UpdateRole(ctx, "acc-1", entities.RoleShopOwner)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleShopOwner, account.Role)
}
