package service

import (
	"context"
	"testing"

	"marketplace/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	createFn     func(ctx context.Context, a entities.Account) error
	byIDFn       func(ctx context.Context, id string) (entities.Account, error)
	byEmailFn    func(ctx context.Context, email string) (entities.Account, error)
	updateFn     func(ctx context.Context, a entities.Account) error
	updatePassFn func(ctx context.Context, id, hash string) error
}

func (f *fakeAccountRepo) CreateAccount(ctx context.Context, a entities.Account) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, a)
}

func (f *fakeAccountRepo) GetAccountByID(ctx context.Context, id string) (entities.Account, error) {
	return f.byIDFn(ctx, id)
}

func (f *fakeAccountRepo) GetAccountByEmail(ctx context.Context, email string) (entities.Account, error) {
	return f.byEmailFn(ctx, email)
}

func (f *fakeAccountRepo) UpdateAccount(ctx context.Context, a entities.Account) error {
	if f.updateFn == nil {
		return nil
	}
	return f.updateFn(ctx, a)
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if f.updatePassFn == nil {
		return nil
	}
	return f.updatePassFn(ctx, id, hash)
}

type fakeTokenIssuer struct {
	err error
}

func (f fakeTokenIssuer) Issue(accountID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + accountID, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("consumer has no shop profile", func(t *testing.T) {
		var saved entities.Account
		repo := &fakeAccountRepo{
			createFn: func(_ context.Context, a entities.Account) error {
				saved = a
				return nil
			},
		}
		svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

		account, tok, err := svc.Register(ctx, RegisterParams{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret1",
			Role:     entities.RoleConsumer,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, account.ID)
		assert.Equal(t, "token-for-"+account.ID, tok)
		assert.Nil(t, saved.Shop)
		assert.False(t, saved.Verified)
		assert.NotEqual(t, "secret1", saved.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secret1")))
	})

	t.Run("shop owner starts unverified with a shop profile", func(t *testing.T) {
		var saved entities.Account
		repo := &fakeAccountRepo{
			createFn: func(_ context.Context, a entities.Account) error {
				saved = a
				return nil
			},
		}
		svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

		_, _, err := svc.Register(ctx, RegisterParams{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: "secret1",
			Role:     entities.RoleShopOwner,
			ShopName: "Bob's Books",
		})
		require.NoError(t, err)

		require.NotNil(t, saved.Shop)
		assert.Equal(t, "Bob's Books", saved.Shop.Name)
		assert.False(t, saved.Verified)
	})

	t.Run("duplicate email surfaces as taken", func(t *testing.T) {
		repo := &fakeAccountRepo{
			createFn: func(context.Context, entities.Account) error {
				return entities.ErrEmailTaken
			},
		}
		svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

		_, _, err := svc.Register(ctx, RegisterParams{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret1",
			Role:     entities.RoleConsumer,
		})
		assert.ErrorIs(t, err, entities.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	stored := entities.Account{
		ID:           "acc-1",
		Email:        "alice@example.com",
		PasswordHash: mustHash(t, "secret1"),
	}
	repo := &fakeAccountRepo{
		byEmailFn: func(_ context.Context, email string) (entities.Account, error) {
			if email != stored.Email {
				return entities.Account{}, entities.ErrAccountNotFound
			}
			return stored, nil
		},
	}
	svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

	t.Run("valid credentials", func(t *testing.T) {
		account, tok, err := svc.Login(ctx, "alice@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "acc-1", account.ID)
		assert.Equal(t, "token-for-acc-1", tok)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("unknown email reports the same error as wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only provided fields", func(t *testing.T) {
		var saved entities.Account
		repo := &fakeAccountRepo{
			byIDFn: func(context.Context, string) (entities.Account, error) {
				return entities.Account{
					ID:    "acc-1",
					Name:  "Alice",
					Phone: "111",
					Role:  entities.RoleConsumer,
				}, nil
			},
			updateFn: func(_ context.Context, a entities.Account) error {
				saved = a
				return nil
			},
		}
		svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

		name := "Alicia"
		account, err := svc.UpdateProfile(ctx, "acc-1", UpdateProfileParams{Name: &name})
		require.NoError(t, err)

		assert.Equal(t, "Alicia", account.Name)
		assert.Equal(t, "111", saved.Phone)
	})

	t.Run("shop fields are ignored for consumers", func(t *testing.T) {
		var saved entities.Account
		repo := &fakeAccountRepo{
			byIDFn: func(context.Context, string) (entities.Account, error) {
				return entities.Account{ID: "acc-1", Role: entities.RoleConsumer}, nil
			},
			updateFn: func(_ context.Context, a entities.Account) error {
				saved = a
				return nil
			},
		}
		svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

		shopName := "Sneaky Shop"
		_, err := svc.UpdateProfile(ctx, "acc-1", UpdateProfileParams{ShopName: &shopName})
		require.NoError(t, err)
		assert.Nil(t, saved.Shop)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	stored := entities.Account{
		ID:           "acc-1",
		PasswordHash: mustHash(t, "old-pass"),
	}

	t.Run("rotates the password", func(t *testing.T) {
		var newHash string
		repo := &fakeAccountRepo{
			byIDFn: func(context.Context, string) (entities.Account, error) {
				return stored, nil
			},
			updatePassFn: func(_ context.Context, _, hash string) error {
				newHash = hash
				return nil
			},
		}
		svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

		err := svc.ChangePassword(ctx, "acc-1", "old-pass", "new-pass")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-pass")))
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo := &fakeAccountRepo{
			byIDFn: func(context.Context, string) (entities.Account, error) {
				return stored, nil
			},
		}
		svc := NewAuthService(discardLogger(), repo, fakeTokenIssuer{})

		err := svc.ChangePassword(ctx, "acc-1", "nope", "new-pass")
		assert.ErrorIs(t, err, entities.ErrWrongPassword)
	})
}
