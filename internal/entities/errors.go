package entities

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrAdminImmutable     = errors.New("admin accounts cannot be deleted")
	ErrNotShopOwner       = errors.New("account is not a shop owner")

	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrNotProductOwner    = errors.New("product belongs to another shop")

	ErrOrderNotFound       = errors.New("order not found")
	ErrNotOrderSeller      = errors.New("no items in this order belong to the shop")
	ErrNotOrderCustomer    = errors.New("order belongs to another customer")
	ErrOrderAccessDenied   = errors.New("not authorized to view this order")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled at this stage")
	ErrInvalidTransition   = errors.New("invalid order status transition")
)
