package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketplace/internal/entities"
	mw "marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticParser struct{ id string }

func (s staticParser) Parse(string) (string, error) { return s.id, nil }

type staticResolver struct{ account entities.Account }

func (s staticResolver) GetAccount(context.Context, string) (entities.Account, error) {
	return s.account, nil
}

func testAuth(account entities.Account) func(next http.Handler) http.Handler {
	return mw.Auth(staticParser{id: account.ID}, staticResolver{account: account})
}

type fakeOrderService struct {
	placeFn      func(ctx context.Context, p service.PlaceOrderParams) (entities.Order, error)
	getFn        func(ctx context.Context, id string, actor entities.Account) (entities.Order, error)
	cancelFn     func(ctx context.Context, orderID, customerID, reason string) (entities.Order, error)
	advanceFn    func(ctx context.Context, p service.AdvanceStatusParams) (entities.Order, error)
	statisticsFn func(ctx context.Context, sellerID string) (entities.ShopStatistics, error)
}

func (f *fakeOrderService) Place(ctx context.Context, p service.PlaceOrderParams) (entities.Order, error) {
	return f.placeFn(ctx, p)
}

func (f *fakeOrderService) GetOrder(ctx context.Context, id string, actor entities.Account) (entities.Order, error) {
	return f.getFn(ctx, id, actor)
}

func (f *fakeOrderService) ListForCustomer(ctx context.Context, customerID string, flt entities.OrderFilter) ([]entities.Order, entities.Pagination, error) {
	return nil, entities.Pagination{}, nil
}

func (f *fakeOrderService) ListForShop(ctx context.Context, sellerID string, flt entities.OrderFilter) ([]entities.Order, entities.Pagination, error) {
	return nil, entities.Pagination{}, nil
}

func (f *fakeOrderService) AdvanceStatus(ctx context.Context, p service.AdvanceStatusParams) (entities.Order, error) {
	return f.advanceFn(ctx, p)
}

func (f *fakeOrderService) Cancel(ctx context.Context, orderID, customerID, reason string) (entities.Order, error) {
	return f.cancelFn(ctx, orderID, customerID, reason)
}

func (f *fakeOrderService) Statistics(ctx context.Context, sellerID string) (entities.ShopStatistics, error) {
	return f.statisticsFn(ctx, sellerID)
}

func newOrderRouter(svc OrderService, account entities.Account) http.Handler {
	r := chi.NewRouter()
	NewOrderHandler(discardLogger(), svc, testAuth(account)).Init(r)
	return r
}

func TestOrderHandler_Place(t *testing.T) {
	customer := entities.Account{ID: "cust-1", Role: entities.RoleConsumer}

	body := `{
		"items": [{"product_id": "p1", "quantity": 3}],
		"shipping_address": {"street": "1 Main St", "city": "Springfield", "state": "IL", "zip_code": "62701", "country": "US"},
		"payment_method": "credit_card"
	}`

	t.Run("places an order", func(t *testing.T) {
		svc := &fakeOrderService{
			placeFn: func(_ context.Context, p service.PlaceOrderParams) (entities.Order, error) {
				assert.Equal(t, "cust-1", p.CustomerID)
				require.Len(t, p.Items, 1)
				assert.Equal(t, 3, p.Items[0].Quantity)
				return entities.Order{
					ID:         "order-1",
					CustomerID: p.CustomerID,
					Status:     entities.StatusPending,
					Subtotal:   3000,
					Tax:        300,
					Shipping:   1000,
					Total:      4300,
				}, nil
			},
		}
		router := newOrderRouter(svc, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "order-1", resp.ID)
		assert.Equal(t, 30.0, resp.Subtotal)
		assert.Equal(t, 3.0, resp.Tax)
		assert.Equal(t, 10.0, resp.Shipping)
		assert.Equal(t, 43.0, resp.Total)
	})

	t.Run("insufficient stock maps to 400", func(t *testing.T) {
		svc := &fakeOrderService{
			placeFn: func(context.Context, service.PlaceOrderParams) (entities.Order, error) {
				return entities.Order{}, entities.ErrInsufficientStock
			},
		}
		router := newOrderRouter(svc, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown product maps to 404", func(t *testing.T) {
		svc := &fakeOrderService{
			placeFn: func(context.Context, service.PlaceOrderParams) (entities.Order, error) {
				return entities.Order{}, entities.ErrProductNotFound
			},
		}
		router := newOrderRouter(svc, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty items fail validation", func(t *testing.T) {
		svc := &fakeOrderService{
			placeFn: func(context.Context, service.PlaceOrderParams) (entities.Order, error) {
				t.Fatal("service must not be called")
				return entities.Order{}, nil
			},
		}
		router := newOrderRouter(svc, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders",
			strings.NewReader(`{"items": [], "payment_method": "credit_card"}`))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("shop owner is forbidden", func(t *testing.T) {
		svc := &fakeOrderService{
			placeFn: func(context.Context, service.PlaceOrderParams) (entities.Order, error) {
				t.Fatal("service must not be called")
				return entities.Order{}, nil
			},
		}
		owner := entities.Account{ID: "seller-1", Role: entities.RoleShopOwner}
		router := newOrderRouter(svc, owner)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		router := newOrderRouter(&fakeOrderService{}, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	seller := entities.Account{ID: "seller-1", Role: entities.RoleShopOwner}

	t.Run("seller updates the status", func(t *testing.T) {
		svc := &fakeOrderService{
			advanceFn: func(_ context.Context, p service.AdvanceStatusParams) (entities.Order, error) {
				assert.Equal(t, "seller-1", p.ActorID)
				assert.Equal(t, entities.StatusConfirmed, p.Status)
				return entities.Order{ID: p.OrderID, Status: p.Status}, nil
			},
		}
		router := newOrderRouter(svc, seller)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status",
			strings.NewReader(`{"status": "confirmed"}`))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("consumer is forbidden", func(t *testing.T) {
		consumer := entities.Account{ID: "cust-1", Role: entities.RoleConsumer}
		router := newOrderRouter(&fakeOrderService{}, consumer)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status",
			strings.NewReader(`{"status": "confirmed"}`))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("bogus status is rejected", func(t *testing.T) {
		router := newOrderRouter(&fakeOrderService{}, seller)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status",
			strings.NewReader(`{"status": "teleported"}`))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid transition maps to 400", func(t *testing.T) {
		svc := &fakeOrderService{
			advanceFn: func(context.Context, service.AdvanceStatusParams) (entities.Order, error) {
				return entities.Order{}, entities.ErrInvalidTransition
			},
		}
		router := newOrderRouter(svc, seller)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status",
			strings.NewReader(`{"status": "shipped"}`))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandler_Cancel(t *testing.T) {
	customer := entities.Account{ID: "cust-1", Role: entities.RoleConsumer}

	t.Run("cancels a pending order", func(t *testing.T) {
		svc := &fakeOrderService{
			cancelFn: func(_ context.Context, orderID, customerID, reason string) (entities.Order, error) {
				assert.Equal(t, "order-1", orderID)
				assert.Equal(t, "cust-1", customerID)
				assert.Equal(t, "changed my mind", reason)
				return entities.Order{ID: orderID, Status: entities.StatusCancelled}, nil
			},
		}
		router := newOrderRouter(svc, customer)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/cancel",
			strings.NewReader(`{"reason": "changed my mind"}`))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("late cancellation maps to 400", func(t *testing.T) {
		svc := &fakeOrderService{
			cancelFn: func(context.Context, string, string, string) (entities.Order, error) {
				return entities.Order{}, entities.ErrOrderNotCancellable
			},
		}
		router := newOrderRouter(svc, customer)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/cancel", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandler_Statistics(t *testing.T) {
	seller := entities.Account{ID: "seller-1", Role: entities.RoleShopOwner}

	svc := &fakeOrderService{
		statisticsFn: func(_ context.Context, sellerID string) (entities.ShopStatistics, error) {
			assert.Equal(t, "seller-1", sellerID)
			return entities.ShopStatistics{TotalOrders: 40, TotalRevenue: 100_000}, nil
		},
	}
	router := newOrderRouter(svc, seller)

	req := httptest.NewRequest(http.MethodGet, "/orders/shop/statistics", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 40, resp.TotalOrders)
	assert.Equal(t, 1000.0, resp.TotalRevenue)
}
