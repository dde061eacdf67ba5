package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"marketplace/internal/entities"
	mw "marketplace/internal/middleware"
	"marketplace/internal/service"
	"marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Register(ctx context.Context, p service.RegisterParams) (entities.Account, string, error)
	Login(ctx context.Context, email, password string) (entities.Account, string, error)
	UpdateProfile(ctx context.Context, accountID string, p service.UpdateProfileParams) (entities.Account, error)
	ChangePassword(ctx context.Context, accountID, current, next string) error
}

type AuthHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      AuthService
	auth     func(next http.Handler) http.Handler
}

func NewAuthHandler(logger *slog.Logger, svc AuthService, auth func(next http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{
		logger:   logger.With(slog.String("handler", "auth")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *AuthHandler) Init(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/me", h.Me)
			r.Put("/profile", h.UpdateProfile)
			r.Put("/password", h.ChangePassword)
		})
	})
}

// Register creates an account and signs it in. An omitted role means consumer.
// @Summary      Register an account
// @Description  Creates a consumer or shop owner account and signs it in; role defaults to consumer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      409  {object}  utils.ErrorResponse "Email already registered"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	role := entities.Role(req.Role)
	if role == "" {
		role = entities.RoleConsumer
	}

	account, token, err := h.svc.Register(ctx, service.RegisterParams{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		Role:            role,
		ShopName:        req.ShopName,
		ShopDescription: req.ShopDescription,
	})

	if errors.Is(err, entities.ErrEmailTaken) {
		utils.WriteError(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to register account", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, AuthResponse{Token: token, Account: AccountEntityToJSON(account)}, http.StatusCreated)
}

// Login authenticates an account by email and password.
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      401  {object}  utils.ErrorResponse "Invalid credentials"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	account, token, err := h.svc.Login(ctx, req.Email, req.Password)

	if errors.Is(err, entities.ErrInvalidCredentials) {
		utils.WriteError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to log in", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, AuthResponse{Token: token, Account: AccountEntityToJSON(account)}, http.StatusOK)
}

// Me returns the authenticated account.
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Account
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := mw.AccountFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	utils.WriteJSON(w, AccountEntityToJSON(account), http.StatusOK)
}

// UpdateProfile applies partial updates to the authenticated account.
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      UpdateProfileRequest  true  "Fields to update"
// @Success      200  {object}  Account
// @Failure      400  {object}  utils.ErrorResponse "Invalid request body"
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.svc.UpdateProfile(ctx, account.ID, service.UpdateProfileParams{
		Name:            req.Name,
		Phone:           req.Phone,
		ShopName:        req.ShopName,
		ShopDescription: req.ShopDescription,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, AccountEntityToJSON(updated), http.StatusOK)
}

// ChangePassword rotates the password after checking the current one.
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        request  body      ChangePasswordRequest  true  "Current and new password"
// @Success      204  "Password changed"
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      401  {object}  utils.ErrorResponse "Wrong current password"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err := h.svc.ChangePassword(ctx, account.ID, req.CurrentPassword, req.NewPassword)

	if errors.Is(err, entities.ErrWrongPassword) {
		utils.WriteError(w, "current password is incorrect", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to change password", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
