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

type ProductService interface {
	List(ctx context.Context, f entities.ProductFilter) ([]entities.Product, entities.Pagination, error)
	Featured(ctx context.Context) ([]entities.Product, error)
	Get(ctx context.Context, id string) (entities.Product, error)
	Create(ctx context.Context, owner entities.Account, p service.ProductParams) (entities.Product, error)
	Update(ctx context.Context, ownerID, id string, upd service.ProductUpdate) (entities.Product, error)
	ToggleActive(ctx context.Context, ownerID, id string) (entities.Product, error)
	Delete(ctx context.Context, ownerID, id string) error
	ListMine(ctx context.Context, ownerID string, page, limit int) ([]entities.Product, entities.Pagination, error)
}

const defaultProductLimit = 12

type ProductHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      ProductService
	auth     func(next http.Handler) http.Handler
}

func NewProductHandler(logger *slog.Logger, svc ProductService, auth func(next http.Handler) http.Handler) *ProductHandler {
	return &ProductHandler{
		logger:   logger.With(slog.String("handler", "product")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *ProductHandler) Init(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/featured", h.Featured)
		r.Get("/{product_id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(h.auth, mw.RequireRole(entities.RoleShopOwner))
			r.Post("/", h.Create)
			r.Put("/{product_id}", h.Update)
			r.Patch("/{product_id}/active", h.ToggleActive)
			r.Delete("/{product_id}", h.Delete)
		})
	})

	r.With(h.auth, mw.RequireRole(entities.RoleShopOwner)).
		Get("/shop/products", h.ListMine)
}

// List returns the public catalog page with filters applied.
// @Summary      Browse the catalog
// @Tags         products
// @Produce      json
// @Param        page       query  int     false  "Page number"
// @Param        limit      query  int     false  "Page size, capped at 50"
// @Param        category   query  string  false  "Category filter"
// @Param        search     query  string  false  "Search in name, description and tags"
// @Param        min_price  query  number  false  "Minimum price in dollars"
// @Param        max_price  query  number  false  "Maximum price in dollars"
// @Param        sort       query  string  false  "price_asc, price_desc, newest or rating"
// @Success      200  {object}  ProductListResponse
// @Failure      400  {object}  utils.ErrorResponse "Invalid filter"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, limit := parsePagination(r, defaultProductLimit)
	filter := entities.ProductFilter{
		Page:   page,
		Limit:  limit,
		Search: query.Get("search"),
		Sort:   entities.SortNewest,
	}

	if raw := query.Get("category"); raw != "" {
		category := entities.Category(raw)
		if !category.Valid() {
			utils.WriteError(w, "unknown category", http.StatusBadRequest)
			return
		}
		filter.Category = category
	}
	if raw := query.Get("sort"); raw != "" {
		sort := entities.ProductSort(raw)
		if !sort.Valid() {
			utils.WriteError(w, "unknown sort order", http.StatusBadRequest)
			return
		}
		filter.Sort = sort
	}
	if v := queryFloat(r, "min_price"); v > 0 {
		filter.MinPrice = toCents(v)
	}
	if v := queryFloat(r, "max_price"); v > 0 {
		filter.MaxPrice = toCents(v)
	}

	products, pagination, err := h.svc.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductListResponse{
		Products:   productsToJSON(products),
		Pagination: PaginationEntityToJSON(pagination),
	}, http.StatusOK)
}

// Featured returns the curated storefront strip.
// @Summary      Featured products
// @Tags         products
// @Produce      json
// @Success      200  {array}  Product
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /products/featured [get]
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.svc.Featured(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list featured products", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, productsToJSON(products), http.StatusOK)
}

// Get returns one product; inactive products are indistinguishable from
// missing ones.
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        product_id  path  string  true  "Product id"
// @Success      200  {object}  Product
// @Failure      404  {object}  utils.ErrorResponse "Product not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /products/{product_id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	product, err := h.svc.Get(ctx, productID)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product", slog.Any("error", err), slog.String("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
}

// Create lists a new product under the caller's shop.
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  CreateProductRequest  true  "Product data"
// @Success      201  {object}  Product
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Failure      403  {object}  utils.ErrorResponse "Not a shop owner"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CreateProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	category := entities.Category(req.Category)
	if !category.Valid() {
		utils.WriteError(w, "unknown category", http.StatusBadRequest)
		return
	}

	product, err := h.svc.Create(ctx, account, service.ProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         toCents(req.Price),
		OriginalPrice: toCents(req.OriginalPrice),
		Images:        req.Images,
		Category:      category,
		Brand:         req.Brand,
		Tags:          req.Tags,
		Stock:         req.Stock,
		Featured:      req.Featured,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create product", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusCreated)
}

// Update applies a partial update to the caller's own product.
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path  string                true  "Product id"
// @Param        request     body  UpdateProductRequest  true  "Fields to update"
// @Success      200  {object}  Product
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      403  {object}  utils.ErrorResponse "Not the product owner"
// @Failure      404  {object}  utils.ErrorResponse "Product not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /products/{product_id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	productID := chi.URLParam(r, "product_id")

	var req UpdateProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	upd := service.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         toCentsPtr(req.Price),
		OriginalPrice: toCentsPtr(req.OriginalPrice),
		Images:        req.Images,
		Brand:         req.Brand,
		Tags:          req.Tags,
		Stock:         req.Stock,
		Featured:      req.Featured,
	}
	if req.Category != nil {
		category := entities.Category(*req.Category)
		if !category.Valid() {
			utils.WriteError(w, "unknown category", http.StatusBadRequest)
			return
		}
		upd.Category = &category
	}

	product, err := h.svc.Update(ctx, account.ID, productID, upd)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrNotProductOwner) {
		utils.WriteError(w, "not the product owner", http.StatusForbidden)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update product", slog.Any("error", err), slog.String("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
}

// ToggleActive flips the listing on or off without deleting it.
// @Summary      Toggle product visibility
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path  string  true  "Product id"
// @Success      200  {object}  Product
// @Failure      403  {object}  utils.ErrorResponse "Not the product owner"
// @Failure      404  {object}  utils.ErrorResponse "Product not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /products/{product_id}/active [patch]
func (h *ProductHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	productID := chi.URLParam(r, "product_id")

	product, err := h.svc.ToggleActive(ctx, account.ID, productID)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrNotProductOwner) {
		utils.WriteError(w, "not the product owner", http.StatusForbidden)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to toggle product", slog.Any("error", err), slog.String("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
}

// Delete removes the caller's own product permanently.
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        product_id  path  string  true  "Product id"
// @Success      204  "Product deleted"
// @Failure      403  {object}  utils.ErrorResponse "Not the product owner"
// @Failure      404  {object}  utils.ErrorResponse "Product not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /products/{product_id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	productID := chi.URLParam(r, "product_id")

	err := h.svc.Delete(ctx, account.ID, productID)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrNotProductOwner) {
		utils.WriteError(w, "not the product owner", http.StatusForbidden)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete product", slog.Any("error", err), slog.String("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine returns the caller's inventory, inactive listings included.
// @Summary      My products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size, capped at 50"
// @Success      200  {object}  ProductListResponse
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /shop/products [get]
func (h *ProductHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	page, limit := parsePagination(r, defaultProductLimit)
	products, pagination, err := h.svc.ListMine(ctx, account.ID, page, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list own products", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductListResponse{
		Products:   productsToJSON(products),
		Pagination: PaginationEntityToJSON(pagination),
	}, http.StatusOK)
}

func productsToJSON(products []entities.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductEntityToJSON(p))
	}
	return result
}
