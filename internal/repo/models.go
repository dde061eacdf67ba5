package repo

import (
	"database/sql"
	"time"

	"marketplace/internal/entities"

	"github.com/lib/pq"
)

type Account struct {
	AccountID       string         `db:"account_id"`
	Name            string         `db:"name"`
	Email           string         `db:"email"`
	PasswordHash    string         `db:"password_hash"`
	Phone           sql.NullString `db:"phone"`
	Role            string         `db:"role"`
	ShopName        sql.NullString `db:"shop_name"`
	ShopDescription sql.NullString `db:"shop_description"`
	Verified        bool           `db:"verified"`
	CreatedAt       time.Time      `db:"created_at"`
}

func AccountToEntity(a Account) entities.Account {
	account := entities.Account{
		ID:           a.AccountID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Phone:        nullStringToString(a.Phone),
		Role:         entities.Role(a.Role),
		Verified:     a.Verified,
		CreatedAt:    a.CreatedAt,
	}

	if account.Role == entities.RoleShopOwner {
		account.Shop = &entities.ShopProfile{
			Name:        nullStringToString(a.ShopName),
			Description: nullStringToString(a.ShopDescription),
		}
	}

	return account
}

type Product struct {
	ProductID     string         `db:"product_id"`
	OwnerID       string         `db:"owner_id"`
	ShopName      string         `db:"shop_name"`
	Name          string         `db:"name"`
	Description   string         `db:"description"`
	Price         int64          `db:"price"`
	OriginalPrice sql.NullInt64  `db:"original_price"`
	Images        pq.StringArray `db:"images"`
	Category      string         `db:"category"`
	Brand         sql.NullString `db:"brand"`
	Tags          pq.StringArray `db:"tags"`
	Stock         int            `db:"stock"`
	Active        bool           `db:"active"`
	Featured      bool           `db:"featured"`
	RatingAverage float64        `db:"rating_average"`
	RatingCount   int            `db:"rating_count"`
	CreatedAt     time.Time      `db:"created_at"`
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:            p.ProductID,
		OwnerID:       p.OwnerID,
		ShopName:      p.ShopName,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: nullInt64ToInt64(p.OriginalPrice),
		Images:        p.Images,
		Category:      entities.Category(p.Category),
		Brand:         nullStringToString(p.Brand),
		Tags:          p.Tags,
		Stock:         p.Stock,
		Active:        p.Active,
		Featured:      p.Featured,
		Rating:        entities.Rating{Average: p.RatingAverage, Count: p.RatingCount},
		CreatedAt:     p.CreatedAt,
	}
}

type Order struct {
	OrderID       string `db:"order_id"`
	CustomerID    string `db:"customer_id"`
	CustomerName  string `db:"customer_name"`
	CustomerEmail string `db:"customer_email"`

	ShippingStreet  string `db:"shipping_street"`
	ShippingCity    string `db:"shipping_city"`
	ShippingState   string `db:"shipping_state"`
	ShippingZipCode string `db:"shipping_zip_code"`
	ShippingCountry string `db:"shipping_country"`

	BillingStreet  string `db:"billing_street"`
	BillingCity    string `db:"billing_city"`
	BillingState   string `db:"billing_state"`
	BillingZipCode string `db:"billing_zip_code"`
	BillingCountry string `db:"billing_country"`

	PaymentMethod string         `db:"payment_method"`
	Status        string         `db:"status"`
	Subtotal      int64          `db:"subtotal"`
	Tax           int64          `db:"tax"`
	ShippingCost  int64          `db:"shipping_cost"`
	Total         int64          `db:"total"`
	Notes         sql.NullString `db:"notes"`

	TrackingNumber     sql.NullString `db:"tracking_number"`
	EstimatedDelivery  sql.NullTime   `db:"estimated_delivery"`
	CancelledAt        sql.NullTime   `db:"cancelled_at"`
	CancelledBy        sql.NullString `db:"cancelled_by"`
	CancellationReason sql.NullString `db:"cancellation_reason"`

	CreatedAt time.Time `db:"created_at"`
}

type OrderItem struct {
	OrderID      string `db:"order_id"`
	ProductID    string `db:"product_id"`
	ProductName  string `db:"product_name"`
	ProductImage string `db:"product_image"`
	Quantity     int    `db:"quantity"`
	UnitPrice    int64  `db:"unit_price"`
	SellerID     string `db:"seller_id"`
	SellerName   string `db:"seller_name"`
}

func OrderItemToEntity(i OrderItem) entities.OrderItem {
	return entities.OrderItem{
		ProductID:    i.ProductID,
		ProductName:  i.ProductName,
		ProductImage: i.ProductImage,
		Quantity:     i.Quantity,
		UnitPrice:    i.UnitPrice,
		SellerID:     i.SellerID,
		SellerName:   i.SellerName,
	}
}

func OrderToEntity(o Order, items []OrderItem) entities.Order {
	order := entities.Order{
		ID:            o.OrderID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		ShippingAddress: entities.Address{
			Street:  o.ShippingStreet,
			City:    o.ShippingCity,
			State:   o.ShippingState,
			ZipCode: o.ShippingZipCode,
			Country: o.ShippingCountry,
		},
		BillingAddress: entities.Address{
			Street:  o.BillingStreet,
			City:    o.BillingCity,
			State:   o.BillingState,
			ZipCode: o.BillingZipCode,
			Country: o.BillingCountry,
		},
		PaymentMethod:      entities.PaymentMethod(o.PaymentMethod),
		Status:             entities.OrderStatus(o.Status),
		Subtotal:           o.Subtotal,
		Tax:                o.Tax,
		Shipping:           o.ShippingCost,
		Total:              o.Total,
		Notes:              nullStringToString(o.Notes),
		TrackingNumber:     nullStringToString(o.TrackingNumber),
		CancelledBy:        nullStringToString(o.CancelledBy),
		CancellationReason: nullStringToString(o.CancellationReason),
		CreatedAt:          o.CreatedAt,
	}

	if o.EstimatedDelivery.Valid {
		t := o.EstimatedDelivery.Time
		order.EstimatedDelivery = &t
	}
	if o.CancelledAt.Valid {
		t := o.CancelledAt.Time
		order.CancelledAt = &t
	}

	if len(items) > 0 {
		order.Items = make([]entities.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, OrderItemToEntity(it))
		}
	}

	return order
}
