package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"marketplace/internal/entities"
	mw "marketplace/internal/middleware"
	"marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type UserService interface {
	ListAccounts(ctx context.Context, f entities.AccountFilter) ([]entities.Account, entities.Pagination, error)
	GetAccount(ctx context.Context, id string) (entities.Account, error)
	UpdateRole(ctx context.Context, id string, role entities.Role) (entities.Account, error)
	VerifyShopOwner(ctx context.Context, id string) (entities.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	ListShops(ctx context.Context, f entities.ShopFilter) ([]entities.Account, entities.Pagination, error)
	GetShop(ctx context.Context, id string) (entities.Account, error)
}

const defaultAccountLimit = 10

type UserHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      UserService
	auth     func(next http.Handler) http.Handler
}

func NewUserHandler(logger *slog.Logger, svc UserService, auth func(next http.Handler) http.Handler) *UserHandler {
	return &UserHandler{
		logger:   logger.With(slog.String("handler", "user")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *UserHandler) Init(r chi.Router) {
	r.Route("/shops", func(r chi.Router) {
		r.Get("/", h.ListShops)
		r.Get("/{shop_id}", h.GetShop)
	})

	r.Route("/admin/users", func(r chi.Router) {
		r.Use(h.auth, mw.RequireRole(entities.RoleAdmin))
		r.Get("/", h.ListAccounts)
		r.Get("/{account_id}", h.GetAccount)
		r.Put("/{account_id}/role", h.UpdateRole)
		r.Put("/{account_id}/verify", h.VerifyShopOwner)
		r.Delete("/{account_id}", h.DeleteAccount)
	})
}

// ListShops returns the public directory of verified shops.
// @Summary      Browse shops
// @Tags         shops
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size, capped at 50"
// @Param        search  query  string  false  "Search by shop or owner name"
// @Success      200  {object}  ShopListResponse
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /shops [get]
func (h *UserHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit := parsePagination(r, defaultAccountLimit)
	shops, pagination, err := h.svc.ListShops(ctx, entities.ShopFilter{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list shops", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]Shop, 0, len(shops))
	for _, s := range shops {
		result = append(result, ShopEntityToJSON(s))
	}

	utils.WriteJSON(w, ShopListResponse{
		Shops:      result,
		Pagination: PaginationEntityToJSON(pagination),
	}, http.StatusOK)
}

// GetShop returns one public storefront.
// @Summary      Get a shop
// @Tags         shops
// @Produce      json
// @Param        shop_id  path  string  true  "Shop id"
// @Success      200  {object}  Shop
// @Failure      404  {object}  utils.ErrorResponse "Shop not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /shops/{shop_id} [get]
func (h *UserHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shopID := chi.URLParam(r, "shop_id")

	shop, err := h.svc.GetShop(ctx, shopID)

	if errors.Is(err, entities.ErrAccountNotFound) {
		utils.WriteError(w, "shop not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get shop", slog.Any("error", err), slog.String("shop_id", shopID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ShopEntityToJSON(shop), http.StatusOK)
}

// ListAccounts returns all accounts for the admin panel.
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size, capped at 50"
// @Param        role    query  string  false  "Role filter"
// @Param        search  query  string  false  "Search by name, email or shop name"
// @Success      200  {object}  AccountListResponse
// @Failure      403  {object}  utils.ErrorResponse "Admin only"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /admin/users [get]
func (h *UserHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit := parsePagination(r, defaultAccountLimit)
	filter := entities.AccountFilter{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role := entities.Role(raw)
		if !role.Valid() {
			utils.WriteError(w, "unknown role", http.StatusBadRequest)
			return
		}
		filter.Role = role
	}

	accounts, pagination, err := h.svc.ListAccounts(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list accounts", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, AccountEntityToJSON(a))
	}

	utils.WriteJSON(w, AccountListResponse{
		Accounts:   result,
		Pagination: PaginationEntityToJSON(pagination),
	}, http.StatusOK)
}

// GetAccount returns one account for the admin panel.
// @Summary      Get an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        account_id  path  string  true  "Account id"
// @Success      200  {object}  Account
// @Failure      404  {object}  utils.ErrorResponse "Account not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /admin/users/{account_id} [get]
func (h *UserHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "account_id")

	account, err := h.svc.GetAccount(ctx, accountID)

	if errors.Is(err, entities.ErrAccountNotFound) {
		utils.WriteError(w, "account not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get account", slog.Any("error", err), slog.String("account_id", accountID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, AccountEntityToJSON(account), http.StatusOK)
}

// UpdateRole changes an account's role.
// @Summary      Update account role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account_id  path  string             true  "Account id"
// @Param        request     body  UpdateRoleRequest  true  "New role"
// @Success      200  {object}  Account
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      404  {object}  utils.ErrorResponse "Account not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /admin/users/{account_id}/role [put]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "account_id")

	var req UpdateRoleRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	account, err := h.svc.UpdateRole(ctx, accountID, entities.Role(req.Role))

	if errors.Is(err, entities.ErrAccountNotFound) {
		utils.WriteError(w, "account not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update role", slog.Any("error", err), slog.String("account_id", accountID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, AccountEntityToJSON(account), http.StatusOK)
}

// VerifyShopOwner marks a shop owner account as verified.
// @Summary      Verify a shop owner
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        account_id  path  string  true  "Account id"
// @Success      200  {object}  Account
// @Failure      400  {object}  utils.ErrorResponse "Account is not a shop owner"
// @Failure      404  {object}  utils.ErrorResponse "Account not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /admin/users/{account_id}/verify [put]
func (h *UserHandler) VerifyShopOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "account_id")

	account, err := h.svc.VerifyShopOwner(ctx, accountID)

	if errors.Is(err, entities.ErrAccountNotFound) {
		utils.WriteError(w, "account not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrNotShopOwner) {
		utils.WriteError(w, "account is not a shop owner", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to verify shop owner", slog.Any("error", err), slog.String("account_id", accountID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, AccountEntityToJSON(account), http.StatusOK)
}

// DeleteAccount removes an account. Admin accounts cannot be deleted.
// @Summary      Delete an account
// @Tags         admin
// @Security     BearerAuth
// @Param        account_id  path  string  true  "Account id"
// @Success      204  "Account deleted"
// @Failure      403  {object}  utils.ErrorResponse "Admin accounts cannot be deleted"
// @Failure      404  {object}  utils.ErrorResponse "Account not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /admin/users/{account_id} [delete]
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "account_id")

	err := h.svc.DeleteAccount(ctx, accountID)

	if errors.Is(err, entities.ErrAccountNotFound) {
		utils.WriteError(w, "account not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrAdminImmutable) {
		utils.WriteError(w, "admin accounts cannot be deleted", http.StatusForbidden)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete account", slog.Any("error", err), slog.String("account_id", accountID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
