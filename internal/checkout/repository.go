package checkout

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Checkout, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Checkout, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, currency, country, email, total,
		       shipping_method_id, shipping_method_name, shipping_price
		FROM checkouts WHERE id = $1
	`, id)

	var (
		c         Checkout
		shipID    sql.NullString
		shipName  sql.NullString
		shipPrice decimal.NullDecimal
	)
	err := row.Scan(
		&c.ID, &c.Currency, &c.Country, &c.Email, &c.Total,
		&shipID, &shipName, &shipPrice,
	)
	if err != nil {
		return nil, err
	}
	if shipID.Valid {
		c.ShippingMethod = &ShippingMethod{
			ID:    shipID.String,
			Name:  shipName.String,
			Price: shipPrice.Decimal,
		}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_name, variant_name, sku, quantity, unit_price
		FROM checkout_lines WHERE checkout_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ProductName, &line.VariantName, &line.SKU, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		c.Lines = append(c.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}
