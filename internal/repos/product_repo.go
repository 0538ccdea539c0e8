package repos

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, COALESCE(description,'') AS description, price, COALESCE(image,'') AS image,
  COALESCE(categories_json,'[]') AS categories_json, brand, COALESCE(sku,'') AS sku,
  current_inventory, created_at`

// List returns products newest first, optionally filtered by category.
func (r *ProductRepo) List(category string) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if category != "" {
		// categories_json holds a JSON string array; match the quoted element.
		where = `categories_json LIKE ?`
		args = append(args, `%"`+category+`"%`)
	}

	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC, id
	`, args...)
	for i := range out {
		out[i].DecodeCategories()
	}
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Product{}, err
	}
	p.DecodeCategories()
	return p, nil
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, price, image, categories_json, brand, sku, current_inventory)
	  VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?,''), ?)
	`, p.ID, p.Name, p.Description, p.Price, p.Image, domain.EncodeCategories(p.Categories), p.Brand, p.SKU, p.CurrentInventory)
	return err
}

// updatableCols whitelists the columns the admin update endpoint may touch.
var updatableCols = map[string]string{
	"name":             "name",
	"description":      "description",
	"price":            "price",
	"image":            "image",
	"categories_json":  "categories_json",
	"brand":            "brand",
	"currentInventory": "current_inventory",
}

// Update applies a partial field set to a product. Returns false when no such
// product exists.
func (r *ProductRepo) Update(id string, fields map[string]any) (bool, error) {
	set := ""
	args := []any{}
	for key, val := range fields {
		col, ok := updatableCols[key]
		if !ok {
			continue
		}
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, val)
	}
	if set == "" {
		// Nothing recognized to update; report existence only.
		var n int
		err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE id = ?`, id)
		return n > 0, err
	}
	args = append(args, id)

	res, err := r.db.Exec(`UPDATE products SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes a product. Order history keeps its snapshot rows.
func (r *ProductRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

// InsertMany bulk-inserts products in one transaction (seed endpoint).
func (r *ProductRepo) InsertMany(products []domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range products {
		if _, err := tx.Exec(`
		  INSERT INTO products(id, name, description, price, image, categories_json, brand, sku, current_inventory)
		  VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?,''), ?)
		`, p.ID, p.Name, p.Description, p.Price, p.Image, domain.EncodeCategories(p.Categories), p.Brand, p.SKU, p.CurrentInventory); err != nil {
			return err
		}
	}
	return tx.Commit()
}
