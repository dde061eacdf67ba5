package entities

import (
	"bytes"
	"encoding/gob"
	"time"
)

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryHomeGarden  Category = "Home & Garden"
	CategoryBooks       Category = "Books"
	CategorySports      Category = "Sports"
	CategoryBeauty      Category = "Beauty"
	CategoryFood        Category = "Food"
	CategoryOther       Category = "Other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryHomeGarden, CategoryBooks,
		CategorySports, CategoryBeauty, CategoryFood, CategoryOther:
		return true
	}
	return false
}

type Rating struct {
	Average float64
	Count   int
}

// Product prices are stored in cents. OriginalPrice is zero when the product
// has never been discounted.
type Product struct {
	ID            string
	OwnerID       string
	ShopName      string
	Name          string
	Description   string
	Price         int64
	OriginalPrice int64
	Images        []string
	Category      Category
	Brand         string
	Tags          []string
	Stock         int
	Active        bool
	Featured      bool
	Rating        Rating
	CreatedAt     time.Time
}

func (p *Product) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Product) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(p)
}

func init() {
	gob.Register(Product{})
	gob.Register(Rating{})
}
