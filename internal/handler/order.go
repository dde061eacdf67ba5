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

type OrderService interface {
	Place(ctx context.Context, p service.PlaceOrderParams) (entities.Order, error)
	GetOrder(ctx context.Context, id string, actor entities.Account) (entities.Order, error)
	ListForCustomer(ctx context.Context, customerID string, f entities.OrderFilter) ([]entities.Order, entities.Pagination, error)
	ListForShop(ctx context.Context, sellerID string, f entities.OrderFilter) ([]entities.Order, entities.Pagination, error)
	AdvanceStatus(ctx context.Context, p service.AdvanceStatusParams) (entities.Order, error)
	Cancel(ctx context.Context, orderID, customerID, reason string) (entities.Order, error)
	Statistics(ctx context.Context, sellerID string) (entities.ShopStatistics, error)
}

const defaultOrderLimit = 10

type OrderHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
	auth     func(next http.Handler) http.Handler
}

func NewOrderHandler(logger *slog.Logger, svc OrderService, auth func(next http.Handler) http.Handler) *OrderHandler {
	return &OrderHandler{
		logger:   logger.With(slog.String("handler", "order")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *OrderHandler) Init(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/{order_id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(entities.RoleConsumer))
			r.Post("/", h.Place)
			r.Get("/my-orders", h.ListMine)
			r.Patch("/{order_id}/cancel", h.Cancel)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(entities.RoleShopOwner))
			r.Get("/shop/my-orders", h.ListForShop)
			r.Get("/shop/statistics", h.Statistics)
			r.Patch("/{order_id}/status", h.UpdateStatus)
		})
	})
}

// Place creates an order from the requested line items.
// @Summary      Place an order
// @Description  Validates every line item, freezes prices and reserves stock atomically
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  PlaceOrderRequest  true  "Order data"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Unavailable product or insufficient stock"
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Failure      403  {object}  utils.ErrorResponse "Consumers only"
// @Failure      404  {object}  utils.ErrorResponse "Product not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders [post]
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req PlaceOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	items := make([]service.LineItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.LineItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	params := service.PlaceOrderParams{
		CustomerID:      account.ID,
		Items:           items,
		ShippingAddress: AddressJSONToEntity(req.ShippingAddress),
		PaymentMethod:   entities.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
	}
	if req.BillingAddress != nil {
		billing := AddressJSONToEntity(*req.BillingAddress)
		params.BillingAddress = &billing
	}

	order, err := h.svc.Place(ctx, params)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, err.Error(), http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrProductUnavailable) || errors.Is(err, entities.ErrInsufficientStock) {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to place order", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// ListMine returns the caller's own orders, newest first.
// @Summary      My orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size, capped at 50"
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  OrderListResponse
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Failure      403  {object}  utils.ErrorResponse "Consumers only"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/my-orders [get]
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	filter, ok := h.orderFilter(w, r)
	if !ok {
		return
	}

	orders, pagination, err := h.svc.ListForCustomer(ctx, account.ID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderListResponse{
		Orders:     ordersToJSON(orders),
		Pagination: PaginationEntityToJSON(pagination),
	}, http.StatusOK)
}

// Get returns a single order for its customer, one of its sellers or an admin.
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path  string  true  "Order id"
// @Success      200  {object}  Order
// @Failure      403  {object}  utils.ErrorResponse "Access denied"
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/{order_id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	orderID := chi.URLParam(r, "order_id")

	order, err := h.svc.GetOrder(ctx, orderID, account)

	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrOrderAccessDenied) {
		utils.WriteError(w, "access denied", http.StatusForbidden)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// Cancel lets the customer back out of a still-pending order.
// @Summary      Cancel an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path  string              true   "Order id"
// @Param        request   body  CancelOrderRequest  false  "Cancellation reason"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Order is no longer cancellable"
// @Failure      403  {object}  utils.ErrorResponse "Not the order customer"
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/{order_id}/cancel [patch]
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	orderID := chi.URLParam(r, "order_id")

	var req CancelOrderRequest
	if r.ContentLength > 0 {
		if err := utils.DecodeBody(r, &req); err != nil {
			utils.WriteError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	order, err := h.svc.Cancel(ctx, orderID, account.ID, req.Reason)

	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrNotOrderCustomer) {
		utils.WriteError(w, "not the order customer", http.StatusForbidden)
		return
	}
	if errors.Is(err, entities.ErrOrderNotCancellable) {
		utils.WriteError(w, "order can no longer be cancelled", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to cancel order", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// UpdateStatus moves an order along the fulfilment chain.
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path  string               true  "Order id"
// @Param        request   body  UpdateStatusRequest  true  "Target status and fulfilment data"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Invalid status transition"
// @Failure      403  {object}  utils.ErrorResponse "Not a seller in this order"
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/{order_id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	orderID := chi.URLParam(r, "order_id")

	var req UpdateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	status := entities.OrderStatus(req.Status)
	if !status.Valid() {
		utils.WriteError(w, "unknown status", http.StatusBadRequest)
		return
	}

	order, err := h.svc.AdvanceStatus(ctx, service.AdvanceStatusParams{
		OrderID:            orderID,
		ActorID:            account.ID,
		Status:             status,
		TrackingNumber:     req.TrackingNumber,
		EstimatedDelivery:  req.EstimatedDelivery,
		CancellationReason: req.CancellationReason,
	})

	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrNotOrderSeller) {
		utils.WriteError(w, "not a seller in this order", http.StatusForbidden)
		return
	}
	if errors.Is(err, entities.ErrInvalidTransition) {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update order status", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// ListForShop returns orders containing the caller's products.
// @Summary      Shop orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size, capped at 50"
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  OrderListResponse
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/shop/my-orders [get]
func (h *OrderHandler) ListForShop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	filter, ok := h.orderFilter(w, r)
	if !ok {
		return
	}

	orders, pagination, err := h.svc.ListForShop(ctx, account.ID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list shop orders", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderListResponse{
		Orders:     ordersToJSON(orders),
		Pagination: PaginationEntityToJSON(pagination),
	}, http.StatusOK)
}

// Statistics returns the sales summary for the caller's shop.
// @Summary      Shop statistics
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Statistics
// @Failure      401  {object}  utils.ErrorResponse "Unauthorized"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/shop/statistics [get]
func (h *OrderHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := mw.AccountFromContext(ctx)
	if !ok {
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	stats, err := h.svc.Statistics(ctx, account.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect statistics", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, StatisticsEntityToJSON(stats), http.StatusOK)
}

func (h *OrderHandler) orderFilter(w http.ResponseWriter, r *http.Request) (entities.OrderFilter, bool) {
	page, limit := parsePagination(r, defaultOrderLimit)
	filter := entities.OrderFilter{Page: page, Limit: limit}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := entities.OrderStatus(raw)
		if !status.Valid() {
			utils.WriteError(w, "unknown status", http.StatusBadRequest)
			return entities.OrderFilter{}, false
		}
		filter.Status = status
	}
	return filter, true
}

func ordersToJSON(orders []entities.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderEntityToJSON(o))
	}
	return result
}
