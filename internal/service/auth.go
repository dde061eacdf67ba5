package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/entities"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AccountRepo interface {
	CreateAccount(ctx context.Context, a entities.Account) error
	GetAccountByID(ctx context.Context, id string) (entities.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (entities.Account, error)
	UpdateAccount(ctx context.Context, a entities.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

type authService struct {
	logger   *slog.Logger
	accounts AccountRepo
	tokens   TokenIssuer
}

func NewAuthService(logger *slog.Logger, accounts AccountRepo, tokens TokenIssuer) *authService {
	return &authService{
		logger:   logger.With(slog.String("service", "auth")),
		accounts: accounts,
		tokens:   tokens,
	}
}

type RegisterParams struct {
	Name            string
	Email           string
	Password        string
	Phone           string
	Role            entities.Role
	ShopName        string
	ShopDescription string
}

// Register creates an account and signs it in. Self-registration covers
// consumers and shop owners only; admin accounts are provisioned out of band.
// Shop owners start unverified.
func (s *authService) Register(ctx context.Context, p RegisterParams) (entities.Account, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return entities.Account{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := entities.Account{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: string(hash),
		Phone:        p.Phone,
		Role:         p.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if p.Role == entities.RoleShopOwner {
		account.Shop = &entities.ShopProfile{
			Name:        p.ShopName,
			Description: p.ShopDescription,
		}
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return entities.Account{}, "", err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return entities.Account{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID), slog.String("role", string(account.Role)))

	return account, token, nil
}

// Login deliberately collapses unknown email and wrong password into the same
// error so callers cannot probe which emails exist.
func (s *authService) Login(ctx context.Context, email, password string) (entities.Account, string, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, entities.ErrAccountNotFound) {
		return entities.Account{}, "", entities.ErrInvalidCredentials
	}
	if err != nil {
		return entities.Account{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return entities.Account{}, "", entities.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return entities.Account{}, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return account, token, nil
}

func (s *authService) GetAccount(ctx context.Context, id string) (entities.Account, error) {
	return s.accounts.GetAccountByID(ctx, id)
}

type UpdateProfileParams struct {
	Name            *string
	Phone           *string
	ShopName        *string
	ShopDescription *string
}

// UpdateProfile applies only the fields present in the request. Shop fields
// are silently ignored for accounts without a shop profile.
func (s *authService) UpdateProfile(ctx context.Context, accountID string, p UpdateProfileParams) (entities.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return entities.Account{}, err
	}

	if p.Name != nil {
		account.Name = *p.Name
	}
	if p.Phone != nil {
		account.Phone = *p.Phone
	}
	if account.Shop != nil {
		if p.ShopName != nil {
			account.Shop.Name = *p.ShopName
		}
		if p.ShopDescription != nil {
			account.Shop.Description = *p.ShopDescription
		}
	}

	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return entities.Account{}, err
	}
	return account, nil
}

func (s *authService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)); err != nil {
		return entities.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.accounts.UpdatePassword(ctx, accountID, string(hash))
}
