package repositories

import (
	"context"

	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

func (r *OnlineTransactionRepository) Create(ctx context.Context, tx *models.OnlineTransaction) error {
	query := `
		INSERT INTO online_transactions (razorpay_order_id, entry_id, person_id, amount,
		                                 fee_amount, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'created')
		RETURNING id, status, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		tx.RazorpayOrderID,
		tx.EntryID,
		tx.PersonID,
		tx.Amount,
		tx.FeeAmount,
		tx.TotalAmount,
	).Scan(&tx.ID, &tx.Status, &tx.CreatedAt, &tx.UpdatedAt)
}

const onlineTxColumns = `id, razorpay_order_id, COALESCE(razorpay_payment_id, ''), entry_id,
	       person_id, amount, fee_amount, total_amount, status,
	       COALESCE(failure_reason, ''), created_at, updated_at`

func scanOnlineTx(row pgx.Row) (*models.OnlineTransaction, error) {
	tx := &models.OnlineTransaction{}
	err := row.Scan(
		&tx.ID,
		&tx.RazorpayOrderID,
		&tx.RazorpayPaymentID,
		&tx.EntryID,
		&tx.PersonID,
		&tx.Amount,
		&tx.FeeAmount,
		&tx.TotalAmount,
		&tx.Status,
		&tx.FailureReason,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *OnlineTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	query := `SELECT ` + onlineTxColumns + ` FROM online_transactions WHERE razorpay_order_id = $1`
	return scanOnlineTx(r.DB.QueryRow(ctx, query, orderID))
}

func (r *OnlineTransactionRepository) MarkSuccess(ctx context.Context, orderID, paymentID string) error {
	query := `
		UPDATE online_transactions
		SET status = 'success', razorpay_payment_id = $1, updated_at = NOW()
		WHERE razorpay_order_id = $2
	`
	_, err := r.DB.Exec(ctx, query, paymentID, orderID)
	return err
}

func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, orderID, reason string) error {
	query := `
		UPDATE online_transactions
		SET status = 'failed', failure_reason = $1, updated_at = NOW()
		WHERE razorpay_order_id = $2
	`
	_, err := r.DB.Exec(ctx, query, reason, orderID)
	return err
}

func (r *OnlineTransactionRepository) ListByEntry(ctx context.Context, entryID int) ([]*models.OnlineTransaction, error) {
	query := `SELECT ` + onlineTxColumns + ` FROM online_transactions WHERE entry_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.OnlineTransaction
	for rows.Next() {
		tx, err := scanOnlineTx(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
