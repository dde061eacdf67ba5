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

const uniqueViolation = "23505"

var accountColumns = []string{
	"account_id", "name", "email", "password_hash", "phone",
	"role", "shop_name", "shop_description", "verified", "created_at",
}

type accountRepo struct {
	base
}

func NewAccountRepo(db *sqlx.DB) *accountRepo {
	return &accountRepo{base: newBase(db)}
}

func (r *accountRepo) CreateAccount(ctx context.Context, a entities.Account) error {
	var shopName, shopDescription sql.NullString
	if a.Shop != nil {
		shopName = nullString(a.Shop.Name)
		shopDescription = nullString(a.Shop.Description)
	}

	query, args := r.qb.Insert("accounts").
		Columns(accountColumns...).
		Values(
			a.ID, a.Name, a.Email, a.PasswordHash, nullString(a.Phone),
			string(a.Role), shopName, shopDescription, a.Verified, a.CreatedAt,
		).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return entities.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepo) GetAccountByID(ctx context.Context, id string) (entities.Account, error) {
	query, args := r.qb.Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"account_id": id}).
		MustSql()

	var account Account
	err := r.getContext(ctx, &account, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Account{}, entities.ErrAccountNotFound
	}
	if err != nil {
		return entities.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return AccountToEntity(account), nil
}

func (r *accountRepo) GetAccountByEmail(ctx context.Context, email string) (entities.Account, error) {
	query, args := r.qb.Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"email": email}).
		MustSql()

	var account Account
	err := r.getContext(ctx, &account, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Account{}, entities.ErrAccountNotFound
	}
	if err != nil {
		return entities.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	return AccountToEntity(account), nil
}

func (r *accountRepo) UpdateAccount(ctx context.Context, a entities.Account) error {
	q := r.qb.Update("accounts").
		Set("name", a.Name).
		Set("phone", nullString(a.Phone)).
		Where(sq.Eq{"account_id": a.ID})

	if a.Shop != nil {
		q = q.
			Set("shop_name", nullString(a.Shop.Name)).
			Set("shop_description", nullString(a.Shop.Description))
	}

	query, args := q.MustSql()
	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

func (r *accountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query, args := r.qb.Update("accounts").
		Set("password_hash", passwordHash).
		Where(sq.Eq{"account_id": id}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *accountRepo) UpdateRole(ctx context.Context, id string, role entities.Role) error {
	query, args := r.qb.Update("accounts").
		Set("role", string(role)).
		Where(sq.Eq{"account_id": id}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepo) SetVerified(ctx context.Context, id string) error {
	query, args := r.qb.Update("accounts").
		Set("verified", true).
		Where(sq.Eq{"account_id": id}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to verify account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepo) DeleteAccount(ctx context.Context, id string) error {
	query, args := r.qb.Delete("accounts").
		Where(sq.Eq{"account_id": id}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (r *accountRepo) ListAccounts(ctx context.Context, f entities.AccountFilter) ([]entities.Account, int, error) {
	var conds []sq.Sqlizer
	if f.Role != "" {
		conds = append(conds, sq.Eq{"role": string(f.Role)})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"shop_name": pattern},
		})
	}

	q := r.qb.Select(accountColumns...).
		From("accounts").
		OrderBy("created_at DESC").
		Offset(uint64((f.Page - 1) * f.Limit)).
		Limit(uint64(f.Limit))
	for _, c := range conds {
		q = q.Where(c)
	}

	query, args := q.MustSql()
	var accounts []Account
	if err := r.selectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select accounts: %w", err)
	}

	total, err := r.countAccounts(ctx, conds)
	if err != nil {
		return nil, 0, err
	}

	result := make([]entities.Account, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, AccountToEntity(a))
	}
	return result, total, nil
}

func (r *accountRepo) ListShops(ctx context.Context, f entities.ShopFilter) ([]entities.Account, int, error) {
	conds := []sq.Sqlizer{
		sq.Eq{"role": string(entities.RoleShopOwner)},
		sq.Eq{"verified": true},
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"shop_name": pattern},
			sq.ILike{"name": pattern},
		})
	}

	q := r.qb.Select(accountColumns...).
		From("accounts").
		OrderBy("shop_name ASC").
		Offset(uint64((f.Page - 1) * f.Limit)).
		Limit(uint64(f.Limit))
	for _, c := range conds {
		q = q.Where(c)
	}

	query, args := q.MustSql()
	var accounts []Account
	if err := r.selectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select shops: %w", err)
	}

	total, err := r.countAccounts(ctx, conds)
	if err != nil {
		return nil, 0, err
	}

	result := make([]entities.Account, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, AccountToEntity(a))
	}
	return result, total, nil
}

func (r *accountRepo) countAccounts(ctx context.Context, conds []sq.Sqlizer) (int, error) {
	q := r.qb.Select("COUNT(*)").From("accounts")
	for _, c := range conds {
		q = q.Where(c)
	}

	query, args := q.MustSql()
	var total int
	if err := r.getContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return total, nil
}
