package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"storefront/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; one pooled connection keeps
	// transactions and reads on the same handle.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed catalog if the DB is empty (idempotent; safe on every start)
	if err := seedCatalogIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure baseline users exist (idempotent; safe on every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('user','admin')) DEFAULT 'user',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Products (inventory count lives on the product row)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  image TEXT,
  categories_json TEXT,
  brand TEXT NOT NULL DEFAULT '',
  sku TEXT UNIQUE,
  current_inventory INTEGER NOT NULL DEFAULT 0 CHECK (current_inventory >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  total_amount NUMERIC NOT NULL,
  ship_name TEXT,
  ship_email TEXT,
  ship_address TEXT,
  payment_method TEXT NOT NULL CHECK (payment_method IN ('UPI','COD')) DEFAULT 'UPI',
  payment_status TEXT NOT NULL CHECK (payment_status IN ('pending','completed','failed')) DEFAULT 'pending',
  order_status TEXT NOT NULL CHECK (order_status IN ('processing','shipped','delivered','cancelled')) DEFAULT 'processing',
  upi_transaction_id TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Line items keep a snapshot of the product at placement time. product_id is
-- a weak reference on purpose: deleting a product must not touch order history.
-- Keyed by line number, not product: a cart may list the same product on
-- several lines, and line order is the order the client submitted.
CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  line INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT,
  price TEXT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  image TEXT,
  PRIMARY KEY (order_id, line)
);
`
	_, err := db.Exec(schema)
	return err
}

// DefaultCatalog is the baseline product set, also exposed through the
// admin seed endpoint.
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{ID: "watch-nato-black", Name: "Field Watch, NATO Strap", Description: "38mm stainless field watch on a black NATO strap.", Price: "149.00", Image: "products/watch-nato-black.jpg", Categories: []string{"watches", "accessories"}, Brand: "Meridian", CurrentInventory: 12},
		{ID: "watch-chrono-steel", Name: "Steel Chronograph", Description: "Quartz chronograph with tachymeter bezel.", Price: "289.00", Image: "products/watch-chrono-steel.jpg", Categories: []string{"watches"}, Brand: "Meridian", CurrentInventory: 5},
		{ID: "bag-canvas-tote", Name: "Waxed Canvas Tote", Description: "Heavy waxed canvas tote with leather handles.", Price: "79.00", Image: "products/bag-canvas-tote.jpg", Categories: []string{"bags", "accessories"}, Brand: "Harbor & Co", CurrentInventory: 20},
		{ID: "headphones-anc-01", Name: "Over-Ear ANC Headphones", Description: "Wireless over-ear headphones with active noise cancelling.", Price: "199.00", Image: "products/headphones-anc-01.jpg", Categories: []string{"electronics", "audio"}, Brand: "Auricle", CurrentInventory: 8},
		{ID: "speaker-shelf-02", Name: "Bookshelf Speaker Pair", Description: "Compact passive bookshelf speakers, walnut finish.", Price: "249.00", Image: "products/speaker-shelf-02.jpg", Categories: []string{"electronics", "audio"}, Brand: "Auricle", CurrentInventory: 4},
		{ID: "kettle-gooseneck", Name: "Gooseneck Pour-Over Kettle", Description: "1L stovetop gooseneck kettle, matte black.", Price: "45.00", Image: "products/kettle-gooseneck.jpg", Categories: []string{"kitchen"}, Brand: "Stillwater", CurrentInventory: 15},
	}
}

func seedCatalogIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting default catalog")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, p := range DefaultCatalog() {
		if _, err := tx.Exec(`
			INSERT INTO products(id, name, description, price, image, categories_json, brand, current_inventory)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.Name, p.Description, p.Price, p.Image, domain.EncodeCategories(p.Categories), p.Brand, p.CurrentInventory); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures one admin and one demo user exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Name, Email, Role, Hash string
	}
	mk := func(id, name, email, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 10)
		return u{ID: id, Name: name, Email: email, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "Admin User", "admin@store.com", domain.RoleAdmin, "admin123"),
		mk("u-demo", "Demo User", "demo@store.com", domain.RoleUser, "demo1234"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id, name, email, password_hash, role)
			VALUES(?, ?, ?, ?, ?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Name, x.Email, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
