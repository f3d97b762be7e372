package payment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	p := &Payment{
		CheckoutID: uuid.New(),
		Reference:  "pay-001",
		Amount:     decimal.RequireFromString("80.20"),
		Currency:   "EUR",
		Status:     StatusPending,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(p.CheckoutID, p.Reference, p.Amount, p.Currency, p.Status, p.ExtraData).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Save(context.Background(), p)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), p.ID)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnError(errors.New("database error"))

		err := repo.Save(context.Background(), p)
		assert.Error(t, err)
	})
}

func TestRepository_GetByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	checkoutID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "checkout_id", "reference", "amount", "currency",
			"status", "psp_reference", "extra_data", "created_at", "updated_at",
		}).AddRow(7, checkoutID, "pay-001", "80.20", "EUR", StatusAuthorized, "882595494831959A", "", now, now)

		mock.ExpectQuery(`SELECT id, checkout_id, reference`).
			WithArgs("pay-001").
			WillReturnRows(rows)

		p, err := repo.GetByReference(context.Background(), "pay-001")
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, checkoutID, p.CheckoutID)
		assert.Equal(t, StatusAuthorized, p.Status)
		assert.True(t, p.Amount.Equal(decimal.RequireFromString("80.20")))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, checkout_id, reference`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByReference(context.Background(), "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payments SET status`).
			WithArgs(StatusAuthorized, "882595494831959A", "pay-001").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), "pay-001", StatusAuthorized, "882595494831959A")
		assert.NoError(t, err)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payments SET status`).
			WillReturnError(errors.New("db error"))

		err := repo.UpdateStatus(context.Background(), "pay-001", StatusRefused, "")
		assert.Error(t, err)
	})
}

func TestRepository_AppendActionRecord(t *testing.T) {
	record := ActionRecord{PaymentData: "new-token", Parameters: []string{"MD", "PaRes"}}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		existing := `[{"payment_data":"old-token","parameters":["PaRes"]}]`
		expected, err := appendActionRecord(existing, record)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT extra_data FROM payments WHERE reference = \$1 FOR UPDATE`).
			WithArgs("pay-001").
			WillReturnRows(sqlmock.NewRows([]string{"extra_data"}).AddRow(existing))
		mock.ExpectExec(`UPDATE payments SET extra_data`).
			WithArgs(expected, "pay-001").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.AppendActionRecord(context.Background(), "pay-001", record)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyHistory", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		expected, err := appendActionRecord("", record)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT extra_data FROM payments`).
			WithArgs("pay-001").
			WillReturnRows(sqlmock.NewRows([]string{"extra_data"}).AddRow(""))
		mock.ExpectExec(`UPDATE payments SET extra_data`).
			WithArgs(expected, "pay-001").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.AppendActionRecord(context.Background(), "pay-001", record)
		assert.NoError(t, err)
	})

	t.Run("PaymentNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT extra_data FROM payments`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err = repo.AppendActionRecord(context.Background(), "missing", record)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("UpdateError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT extra_data FROM payments`).
			WithArgs("pay-001").
			WillReturnRows(sqlmock.NewRows([]string{"extra_data"}).AddRow(""))
		mock.ExpectExec(`UPDATE payments SET extra_data`).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		err = repo.AppendActionRecord(context.Background(), "pay-001", record)
		assert.Error(t, err)
	})

	t.Run("BeginError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin().WillReturnError(errors.New("db down"))

		err = repo.AppendActionRecord(context.Background(), "pay-001", record)
		assert.Error(t, err)
	})
}
