package entities

type ProductSort string

const (
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortNewest    ProductSort = "newest"
	SortRating    ProductSort = "rating"
)

func (s ProductSort) Valid() bool {
	switch s {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortRating:
		return true
	}
	return false
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter";
// prices are in cents.
type ProductFilter struct {
	Page     int
	Limit    int
	Category Category
	Search   string
	MinPrice int64
	MaxPrice int64
	Sort     ProductSort
}

type AccountFilter struct {
	Page   int
	Limit  int
	Role   Role
	Search string
}

type ShopFilter struct {
	Page   int
	Limit  int
	Search string
}

type OrderFilter struct {
	Page   int
	Limit  int
	Status OrderStatus
}
