package domain

import "encoding/json"

type Product struct {
	ID               string   `db:"id" json:"id"`
	Name             string   `db:"name" json:"name"`
	Description      string   `db:"description" json:"description"`
	Price            string   `db:"price" json:"price"` // decimal-as-text, e.g. "129.99"
	Image            string   `db:"image" json:"image"`
	CategoriesJSON   string   `db:"categories_json" json:"-"`
	Categories       []string `db:"-" json:"categories"`
	Brand            string   `db:"brand" json:"brand"`
	SKU              string   `db:"sku" json:"sku,omitempty"`
	CurrentInventory int      `db:"current_inventory" json:"currentInventory"`
	CreatedAt        string   `db:"created_at" json:"createdAt"`
}

// DecodeCategories fills Categories from the stored JSON column.
func (p *Product) DecodeCategories() {
	p.Categories = nil
	if p.CategoriesJSON == "" {
		return
	}
	_ = json.Unmarshal([]byte(p.CategoriesJSON), &p.Categories)
}

// EncodeCategories serializes a category set for storage.
func EncodeCategories(cats []string) string {
	if cats == nil {
		cats = []string{}
	}
	b, _ := json.Marshal(cats)
	return string(b)
}
