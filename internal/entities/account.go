package entities

import "time"

type Role string

const (
	RoleConsumer  Role = "consumer"
	RoleShopOwner Role = "shop_owner"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleShopOwner, RoleAdmin:
		return true
	}
	return false
}

// ShopProfile exists only on shop owner accounts. Account.Shop is nil for
// every other role, so shop fields cannot leak onto consumers or admins.
type ShopProfile struct {
	Name        string
	Description string
}

type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	Shop         *ShopProfile
	Verified     bool
	CreatedAt    time.Time
}

func (a Account) ShopName() string {
	if a.Shop != nil {
		return a.Shop.Name
	}
	return ""
}
