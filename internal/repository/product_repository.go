package repository

import (
	"context"
	"database/sql"

	"github.com/seongmin-k/festival-discovery/internal/model"
)

// ProductRepo provides CRUD operations for festival products.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a new ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductDetail is a product joined with the owning festival's name for
// display purposes.
type ProductDetail struct {
	model.Product
	FestivalName string
}

const productCols = `p.id, p.festival_id, p.name, p.price, p.original_price, p.stock, p.product_type, p.image_url, p.description`

func scanProduct(scan func(dest ...any) error, withFestivalName bool) (*ProductDetail, error) {
	var d ProductDetail
	var originalPrice sql.NullInt64
	var imageURL, description sql.NullString
	dest := []any{
		&d.ID, &d.FestivalID, &d.Name, &d.Price, &originalPrice,
		&d.Stock, &d.Type, &imageURL, &description,
	}
	if withFestivalName {
		dest = append(dest, &d.FestivalName)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	if originalPrice.Valid {
		v := int(originalPrice.Int64)
		d.OriginalPrice = &v
	}
	if imageURL.Valid {
		v := imageURL.String
		d.ImageURL = &v
	}
	if description.Valid {
		v := description.String
		d.Description = &v
	}
	return &d, nil
}

// Create inserts a product and populates its generated ID.  The service
// layer has already verified that the referenced festival exists.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	const q = `INSERT INTO products (festival_id, name, price, original_price, stock, product_type, image_url, description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.FestivalID, p.Name, p.Price, p.OriginalPrice, p.Stock, p.Type, p.ImageURL, p.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID returns a product by id or ErrNotFound.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productCols+` FROM products p WHERE p.id = ?`, id)
	d, err := scanProduct(row.Scan, false)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d.Product, nil
}

// GetDetailByID returns a product joined with its festival name.
func (r *ProductRepo) GetDetailByID(ctx context.Context, id uint64) (*ProductDetail, error) {
	const q = `SELECT ` + productCols + `, f.name
	           FROM products p JOIN festivals f ON f.id = p.festival_id
	           WHERE p.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	d, err := scanProduct(row.Scan, true)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

// ListDetails returns every product joined with its festival name.
func (r *ProductRepo) ListDetails(ctx context.Context) ([]ProductDetail, error) {
	const q = `SELECT ` + productCols + `, f.name
	           FROM products p JOIN festivals f ON f.id = p.festival_id
	           ORDER BY p.id`
	return r.listDetails(ctx, q)
}

// ListDetailsByFestival returns the products of one festival joined
// with the festival name.
func (r *ProductRepo) ListDetailsByFestival(ctx context.Context, festivalID uint64) ([]ProductDetail, error) {
	const q = `SELECT ` + productCols + `, f.name
	           FROM products p JOIN festivals f ON f.id = p.festival_id
	           WHERE p.festival_id = ?
	           ORDER BY p.id`
	return r.listDetails(ctx, q, festivalID)
}

func (r *ProductRepo) listDetails(ctx context.Context, query string, args ...any) ([]ProductDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ProductDetail, 0)
	for rows.Next() {
		d, err := scanProduct(rows.Scan, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Update overwrites every mutable column of the product row.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	const q = `UPDATE products
	           SET festival_id = ?, name = ?, price = ?, original_price = ?, stock = ?, product_type = ?, image_url = ?, description = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		p.FestivalID, p.Name, p.Price, p.OriginalPrice, p.Stock, p.Type, p.ImageURL, p.Description, p.ID)
	return err
}

// Delete removes a product by id.  Removing a missing product is a
// silent no-op, matching the public delete endpoint's behavior.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

// DeleteByFestivalTx removes all products of a festival inside the
// cascade transaction.  Reservations referencing these products must
// already have been deleted.
func (r *ProductRepo) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM products WHERE festival_id = ?`, festivalID)
	return err
}
