package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"marketplace/internal/entities"
)

// Money crosses the JSON boundary as dollars; everything internal is cents.
func dollars(cents int64) float64 {
	return float64(cents) / 100
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func toCentsPtr(amount *float64) *int64 {
	if amount == nil {
		return nil
	}
	c := toCents(*amount)
	return &c
}

type Account struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Role            string    `json:"role"`
	ShopName        string    `json:"shop_name,omitempty"`
	ShopDescription string    `json:"shop_description,omitempty"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func AccountEntityToJSON(a entities.Account) Account {
	account := Account{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      string(a.Role),
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
	}
	if a.Shop != nil {
		account.ShopName = a.Shop.Name
		account.ShopDescription = a.Shop.Description
	}
	return account
}

// Shop is the public storefront view of a shop owner account. Email and
// phone stay private.
type Shop struct {
	ID              string    `json:"id"`
	ShopName        string    `json:"shop_name"`
	ShopDescription string    `json:"shop_description,omitempty"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func ShopEntityToJSON(a entities.Account) Shop {
	shop := Shop{
		ID:        a.ID,
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
	}
	if a.Shop != nil {
		shop.ShopName = a.Shop.Name
		shop.ShopDescription = a.Shop.Description
	}
	return shop
}

type AuthResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role,omitempty" validate:"omitempty,oneof=consumer shop_owner"`
	ShopName        string `json:"shop_name,omitempty" validate:"required_if=Role shop_owner"`
	ShopDescription string `json:"shop_description,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	ShopName        *string `json:"shop_name,omitempty"`
	ShopDescription *string `json:"shop_description,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Product struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shop_id"`
	ShopName      string    `json:"shop_name"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price,omitempty"`
	Images        []string  `json:"images"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand,omitempty"`
	Tags          []string  `json:"tags"`
	Stock         int       `json:"stock"`
	Active        bool      `json:"active"`
	Featured      bool      `json:"featured"`
	Rating        Rating    `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ID:            p.ID,
		ShopID:        p.OwnerID,
		ShopName:      p.ShopName,
		Name:          p.Name,
		Description:   p.Description,
		Price:         dollars(p.Price),
		OriginalPrice: dollars(p.OriginalPrice),
		Images:        p.Images,
		Category:      string(p.Category),
		Brand:         p.Brand,
		Tags:          p.Tags,
		Stock:         p.Stock,
		Active:        p.Active,
		Featured:      p.Featured,
		Rating:        Rating{Average: p.Rating.Average, Count: p.Rating.Count},
		CreatedAt:     p.CreatedAt,
	}
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2"`
	Description   string   `json:"description" validate:"required,min=10"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice float64  `json:"original_price,omitempty" validate:"gte=0"`
	Images        []string `json:"images" validate:"required,min=1"`
	Category      string   `json:"category" validate:"required"`
	Brand         string   `json:"brand,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Featured      bool     `json:"featured,omitempty"`
}

type UpdateProductRequest struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=2"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,min=10"`
	Price         *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice *float64  `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	Images        *[]string `json:"images,omitempty" validate:"omitempty,min=1"`
	Category      *string   `json:"category,omitempty"`
	Brand         *string   `json:"brand,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Stock         *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Featured      *bool     `json:"featured,omitempty"`
}

type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func AddressEntityToJSON(a entities.Address) Address {
	return Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func AddressJSONToEntity(a Address) entities.Address {
	return entities.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress Address            `json:"shipping_address" validate:"required"`
	BillingAddress  *Address           `json:"billing_address,omitempty"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal cash_on_delivery"`
	Notes           string             `json:"notes,omitempty"`
}

type OrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	SellerID     string  `json:"seller_id"`
	SellerName   string  `json:"seller_name"`
}

type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id"`
	CustomerName    string      `json:"customer_name,omitempty"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shipping_address"`
	BillingAddress  Address     `json:"billing_address"`
	PaymentMethod   string      `json:"payment_method"`
	Status          string      `json:"status"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	Shipping        float64     `json:"shipping"`
	Total           float64     `json:"total"`
	Notes           string      `json:"notes,omitempty"`

	TrackingNumber     string     `json:"tracking_number,omitempty"`
	EstimatedDelivery  *time.Time `json:"estimated_delivery,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			Quantity:     it.Quantity,
			UnitPrice:    dollars(it.UnitPrice),
			SellerID:     it.SellerID,
			SellerName:   it.SellerName,
		})
	}

	return Order{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Items:           items,
		ShippingAddress: AddressEntityToJSON(o.ShippingAddress),
		BillingAddress:  AddressEntityToJSON(o.BillingAddress),
		PaymentMethod:   string(o.PaymentMethod),
		Status:          string(o.Status),
		Subtotal:        dollars(o.Subtotal),
		Tax:             dollars(o.Tax),
		Shipping:        dollars(o.Shipping),
		Total:           dollars(o.Total),
		Notes:           o.Notes,

		TrackingNumber:     o.TrackingNumber,
		EstimatedDelivery:  o.EstimatedDelivery,
		CancelledAt:        o.CancelledAt,
		CancelledBy:        o.CancelledBy,
		CancellationReason: o.CancellationReason,

		CreatedAt: o.CreatedAt,
	}
}

type UpdateStatusRequest struct {
	Status             string     `json:"status" validate:"required"`
	TrackingNumber     string     `json:"tracking_number,omitempty"`
	EstimatedDelivery  *time.Time `json:"estimated_delivery,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=consumer shop_owner admin"`
}

type Statistics struct {
	TotalOrders    int     `json:"total_orders"`
	MonthlyOrders  int     `json:"monthly_orders"`
	YearlyOrders   int     `json:"yearly_orders"`
	PendingOrders  int     `json:"pending_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	YearlyRevenue  float64 `json:"yearly_revenue"`
}

func StatisticsEntityToJSON(s entities.ShopStatistics) Statistics {
	return Statistics{
		TotalOrders:    s.TotalOrders,
		MonthlyOrders:  s.MonthlyOrders,
		YearlyOrders:   s.YearlyOrders,
		PendingOrders:  s.PendingOrders,
		TotalRevenue:   dollars(s.TotalRevenue),
		MonthlyRevenue: dollars(s.MonthlyRevenue),
		YearlyRevenue:  dollars(s.YearlyRevenue),
	}
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

func PaginationEntityToJSON(p entities.Pagination) Pagination {
	return Pagination{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalCount:  p.TotalCount,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}

type ProductListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

type AccountListResponse struct {
	Accounts   []Account  `json:"accounts"`
	Pagination Pagination `json:"pagination"`
}

type ShopListResponse struct {
	Shops      []Shop     `json:"shops"`
	Pagination Pagination `json:"pagination"`
}

const maxPageLimit = 50

// parsePagination clamps page and limit to sane bounds; limit never exceeds
// maxPageLimit regardless of what the client asks for.
func parsePagination(r *http.Request, defaultLimit int) (page, limit int) {
	page = queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = queryInt(r, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func queryFloat(r *http.Request, key string) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
