package db

import (
	"database/sql"
	"fmt"
)

// DefaultProducts is the catalog seeded into an empty database.
var DefaultProducts = []Product{
	{
		Name:    "深海蓝藻保湿面膜",
		Details: "深海蓝藻保湿面膜：核心成分为深海蓝藻提取物，富含多糖和氨基酸，能深层补水、修护肌肤屏障、舒缓敏感泛红。质地清爽不粘腻，适合所有肤质，尤其适合干燥、敏感肌。规格：25ml*5片。",
	},
	{
		Name:    "美白精华",
		Details: "美白精华：核心成分是烟酰胺和VC衍生物，主要功效是提亮肤色、淡化痘印、改善暗沉。质地轻薄易吸收，适合需要均匀肤色的人群。",
	},
}

// CreateProduct inserts a catalog entry and returns its ID.
func (d *DB) CreateProduct(name, details string) (int64, error) {
	res, err := d.conn.Exec("INSERT INTO products (name, details) VALUES (?, ?)", name, details)
	if err != nil {
		return 0, fmt.Errorf("creating product: %w", err)
	}
	return res.LastInsertId()
}

// FindProduct returns the catalog entry whose name occurs in query, preferring
// the longest name. It returns nil when nothing matches.
func (d *DB) FindProduct(query string) (*Product, error) {
	var p Product
	err := d.conn.QueryRow(
		"SELECT id, name, details, created_at, updated_at FROM products WHERE instr(?, name) > 0 ORDER BY length(name) DESC, id ASC LIMIT 1",
		query,
	).Scan(&p.ID, &p.Name, &p.Details, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding product: %w", err)
	}
	return &p, nil
}

// ListProducts returns the catalog ordered by name.
func (d *DB) ListProducts() ([]Product, error) {
	rows, err := d.conn.Query("SELECT id, name, details, created_at, updated_at FROM products ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Details, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProduct updates name and/or details on a product by ID.
func (d *DB) UpdateProduct(id int64, fields map[string]any) error {
	return d.updateRow("products", id, fields)
}

// SeedDefaultProducts fills an empty catalog with DefaultProducts and returns
// how many rows were inserted.
func (d *DB) SeedDefaultProducts() (int, error) {
	var count int
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for _, p := range DefaultProducts {
		if _, err := d.CreateProduct(p.Name, p.Details); err != nil {
			return 0, err
		}
	}
	return len(DefaultProducts), nil
}
