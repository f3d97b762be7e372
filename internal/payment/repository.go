package payment

import (
	"context"
	"database/sql"
)

type Repository interface {
	Save(ctx context.Context, p *Payment) error
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	UpdateStatus(ctx context.Context, reference, status, pspReference string) error
	AppendActionRecord(ctx context.Context, reference string, record ActionRecord) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, p *Payment) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO payments (checkout_id, reference, amount, currency, status, extra_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		p.CheckoutID, p.Reference, p.Amount, p.Currency, p.Status, p.ExtraData,
	).Scan(&p.ID)
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, checkout_id, reference, amount, currency, status, psp_reference, extra_data, created_at, updated_at
		FROM payments WHERE reference = $1
	`, reference)

	var p Payment
	err := row.Scan(
		&p.ID, &p.CheckoutID, &p.Reference, &p.Amount, &p.Currency,
		&p.Status, &p.PSPReference, &p.ExtraData, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateStatus(ctx context.Context, reference, status, pspReference string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $1, psp_reference = $2, updated_at = now() WHERE reference = $3
	`, status, pspReference, reference)
	return err
}

// AppendActionRecord appends one action record to the payment's extra-data
// history. The row is locked for the read-modify-write so concurrent appends
// cannot drop each other's records.
func (r *repository) AppendActionRecord(ctx context.Context, reference string, record ActionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var extraData string
	err = tx.QueryRowContext(ctx, `
		SELECT extra_data FROM payments WHERE reference = $1 FOR UPDATE
	`, reference).Scan(&extraData)
	if err != nil {
		return err
	}

	updated, err := appendActionRecord(extraData, record)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET extra_data = $1, updated_at = now() WHERE reference = $2
	`, updated, reference)
	if err != nil {
		return err
	}

	return tx.Commit()
}
