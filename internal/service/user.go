package service

import (
	"context"
	"log/slog"

	"marketplace/internal/entities"
)

type UserRepo interface {
	GetAccountByID(ctx context.Context, id string) (entities.Account, error)
	ListAccounts(ctx context.Context, f entities.AccountFilter) ([]entities.Account, int, error)
	ListShops(ctx context.Context, f entities.ShopFilter) ([]entities.Account, int, error)
	UpdateRole(ctx context.Context, id string, role entities.Role) error
	SetVerified(ctx context.Context, id string) error
	DeleteAccount(ctx context.Context, id string) error
}

type userService struct {
	logger *slog.Logger
	repo   UserRepo
}

func NewUserService(logger *slog.Logger, repo UserRepo) *userService {
	return &userService{
		logger: logger.With(slog.String("service", "user")),
		repo:   repo,
	}
}

func (s *userService) ListAccounts(ctx context.Context, f entities.AccountFilter) ([]entities.Account, entities.Pagination, error) {
	accounts, total, err := s.repo.ListAccounts(ctx, f)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return accounts, entities.NewPagination(f.Page, f.Limit, total), nil
}

func (s *userService) GetAccount(ctx context.Context, id string) (entities.Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}

func (s *userService) UpdateRole(ctx context.Context, id string, role entities.Role) (entities.Account, error) {
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return entities.Account{}, err
	}

	s.logger.InfoContext(ctx, "role updated",
		slog.String("account_id", id), slog.String("role", string(role)))

	return s.repo.GetAccountByID(ctx, id)
}

func (s *userService) VerifyShopOwner(ctx context.Context, id string) (entities.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return entities.Account{}, err
	}
	if account.Role != entities.RoleShopOwner {
		return entities.Account{}, entities.ErrNotShopOwner
	}

	if err := s.repo.SetVerified(ctx, id); err != nil {
		return entities.Account{}, err
	}
	account.Verified = true
	return account, nil
}

// DeleteAccount removes any account except an admin. Admin accounts are
// permanent no matter who asks.
func (s *userService) DeleteAccount(ctx context.Context, id string) error {
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return err
	}
	if account.Role == entities.RoleAdmin {
		return entities.ErrAdminImmutable
	}

	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "account deleted", slog.String("account_id", id))
	return nil
}

func (s *userService) ListShops(ctx context.Context, f entities.ShopFilter) ([]entities.Account, entities.Pagination, error) {
	shops, total, err := s.repo.ListShops(ctx, f)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return shops, entities.NewPagination(f.Page, f.Limit, total), nil
}

// GetShop exposes the public storefront view. Anything that is not a shop
// owner account is reported as missing.
func (s *userService) GetShop(ctx context.Context, id string) (entities.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return entities.Account{}, err
	}
	if account.Role != entities.RoleShopOwner {
		return entities.Account{}, entities.ErrAccountNotFound
	}
	return account, nil
}
