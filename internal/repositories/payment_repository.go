package repositories

import (
	"context"
	"fmt"

	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// GenerateReceiptNumber pulls the next value from a database sequence for
// O(1) receipt numbering regardless of table size.
func (r *PaymentRepository) GenerateReceiptNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var nextNum int
	if err := tx.QueryRow(ctx, "SELECT nextval('receipt_number_sequence')").Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to get next receipt number: %w", err)
	}
	return fmt.Sprintf("RCP-%06d", nextNum), nil
}

// Create inserts a payment inside the caller's transaction, assigning it a
// receipt number from the sequence.
func (r *PaymentRepository) Create(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	receiptNumber, err := r.GenerateReceiptNumber(ctx, tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payments (entry_id, receipt_number, amount, payment_date, notes,
		                      idempotency_key, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		payment.EntryID,
		receiptNumber,
		payment.Amount,
		payment.PaymentDate,
		payment.Notes,
		payment.IdempotencyKey,
		payment.CreatedByUserID,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return err
	}

	payment.ReceiptNumber = receiptNumber
	return nil
}

const paymentColumns = `id, entry_id, receipt_number, amount, payment_date,
	       COALESCE(notes, ''), COALESCE(idempotency_key::text, ''),
	       COALESCE(created_by_user_id, 0), created_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(
		&p.ID,
		&p.EntryID,
		&p.ReceiptNumber,
		&p.Amount,
		&p.PaymentDate,
		&p.Notes,
		&p.IdempotencyKey,
		&p.CreatedByUserID,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.DB.QueryRow(ctx, query, id))
}

func (r *PaymentRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE receipt_number = $1`
	return scanPayment(r.DB.QueryRow(ctx, query, receiptNumber))
}

// GetByIdempotencyKey returns the payment previously created with this key,
// or pgx.ErrNoRows when the key is unused.
func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE idempotency_key = $1::uuid`
	return scanPayment(r.DB.QueryRow(ctx, query, key))
}

func (r *PaymentRepository) GetByEntryID(ctx context.Context, entryID int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE entry_id = $1 ORDER BY payment_date DESC, id DESC`

	rows, err := r.DB.Query(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// ListByEntryTx fetches an entry's surviving payments inside a transaction,
// after a deletion, so the recompute sees the post-delete ground truth.
func (r *PaymentRepository) ListByEntryTx(ctx context.Context, tx pgx.Tx, entryID int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE entry_id = $1 ORDER BY payment_date DESC, id DESC`

	rows, err := tx.Query(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *PaymentRepository) ListByPerson(ctx context.Context, personID int) ([]*models.Payment, error) {
	query := `
		SELECT pm.id, pm.entry_id, pm.receipt_number, pm.amount, pm.payment_date,
		       COALESCE(pm.notes, ''), COALESCE(pm.idempotency_key::text, ''),
		       COALESCE(pm.created_by_user_id, 0), pm.created_at
		FROM payments pm
		JOIN entries e ON pm.entry_id = e.id
		WHERE e.person_id = $1
		ORDER BY pm.payment_date DESC, pm.id DESC
	`
	rows, err := r.DB.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, tx pgx.Tx, id int) error {
	tag, err := tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteByEntry removes all of an entry's payments ahead of entry deletion.
func (r *PaymentRepository) DeleteByEntry(ctx context.Context, tx pgx.Tx, entryID int) error {
	_, err := tx.Exec(ctx, `DELETE FROM payments WHERE entry_id = $1`, entryID)
	return err
}
