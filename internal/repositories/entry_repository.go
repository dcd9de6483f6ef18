package repositories

import (
	"context"
	"fmt"

	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EntryRepository struct {
	DB *pgxpool.Pool
}

func NewEntryRepository(db *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{DB: db}
}

const entrySelect = `
	SELECT e.id, e.user_id, e.person_id, p.name, e.equipment_id, e.crop_type_id,
	       e.quantity, e.price_per_unit, e.total_price, e.total_amount_paid,
	       e.remaining_amount, e.payment_status, e.last_payment_date,
	       e.entry_date, COALESCE(e.notes, ''), e.created_at, e.updated_at
	FROM entries e
	JOIN persons p ON e.person_id = p.id
`

func scanEntry(row pgx.Row) (*models.Entry, error) {
	e := &models.Entry{}
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.PersonID,
		&e.PersonName,
		&e.EquipmentID,
		&e.CropTypeID,
		&e.Quantity,
		&e.PricePerUnit,
		&e.TotalPrice,
		&e.TotalAmountPaid,
		&e.RemainingAmount,
		&e.PaymentStatus,
		&e.LastPaymentDate,
		&e.EntryDate,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new entry inside the caller's transaction so the person
// aggregate update commits or rolls back with it.
func (r *EntryRepository) Create(ctx context.Context, tx pgx.Tx, e *models.Entry) error {
	query := `
		INSERT INTO entries (user_id, person_id, equipment_id, crop_type_id, quantity,
		                     price_per_unit, total_price, total_amount_paid, remaining_amount,
		                     payment_status, last_payment_date, entry_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	return tx.QueryRow(ctx, query,
		e.UserID,
		e.PersonID,
		e.EquipmentID,
		e.CropTypeID,
		e.Quantity,
		e.PricePerUnit,
		e.TotalPrice,
		e.TotalAmountPaid,
		e.RemainingAmount,
		e.PaymentStatus,
		e.LastPaymentDate,
		e.EntryDate,
		e.Notes,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EntryRepository) Get(ctx context.Context, id int) (*models.Entry, error) {
	return scanEntry(r.DB.QueryRow(ctx, entrySelect+` WHERE e.id = $1`, id))
}

// GetForUpdate fetches an entry with a row lock. Every balance mutation goes
// through this so two concurrent payments against the same entry serialize
// instead of racing the read-modify-write.
func (r *EntryRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.Entry, error) {
	query := `
		SELECT id, user_id, person_id, equipment_id, crop_type_id, quantity,
		       price_per_unit, total_price, total_amount_paid, remaining_amount,
		       payment_status, last_payment_date, entry_date, COALESCE(notes, ''),
		       created_at, updated_at
		FROM entries
		WHERE id = $1
		FOR UPDATE
	`
	e := &models.Entry{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.UserID,
		&e.PersonID,
		&e.EquipmentID,
		&e.CropTypeID,
		&e.Quantity,
		&e.PricePerUnit,
		&e.TotalPrice,
		&e.TotalAmountPaid,
		&e.RemainingAmount,
		&e.PaymentStatus,
		&e.LastPaymentDate,
		&e.EntryDate,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns one page of entries plus the unpaginated total for the same
// filter, so the client can render page controls.
func (r *EntryRepository) List(ctx context.Context, filter *models.EntryFilter) (*models.EntryList, error) {
	where := ` WHERE e.user_id = $1`
	args := []interface{}{filter.UserID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND e.payment_status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND p.name ILIKE $%d", len(args))
	}

	countQuery := `SELECT COUNT(*) FROM entries e JOIN persons p ON e.person_id = p.id` + where
	var total int
	if err := r.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := entrySelect + where + fmt.Sprintf(
		" ORDER BY e.entry_date DESC, e.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}

	return &models.EntryList{Items: items, Total: total}, nil
}

func (r *EntryRepository) ListByPerson(ctx context.Context, personID int) ([]*models.Entry, error) {
	rows, err := r.DB.Query(ctx, entrySelect+` WHERE e.person_id = $1 ORDER BY e.entry_date DESC, e.id DESC`, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

// UpdateBalances persists the derived fields of a payment mutation. The four
// columns always travel together; payment_status stays queryable because it
// is written in the same statement as the amounts it derives from.
func (r *EntryRepository) UpdateBalances(ctx context.Context, tx pgx.Tx, entryID int, upd ledger.EntryUpdate) error {
	query := `
		UPDATE entries
		SET total_amount_paid = $1,
		    remaining_amount = $2,
		    payment_status = $3,
		    last_payment_date = $4,
		    updated_at = NOW()
		WHERE id = $5
	`
	tag, err := tx.Exec(ctx, query,
		upd.TotalAmountPaid,
		upd.RemainingAmount,
		upd.PaymentStatus,
		upd.LastPaymentDate,
		entryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	return err
}

// GetSummary aggregates dashboard statistics for a user in one query.
func (r *EntryRepository) GetSummary(ctx context.Context, userID int) (*models.Summary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE payment_status = 'not_paid'),
		       COUNT(*) FILTER (WHERE payment_status = 'partially_paid'),
		       COUNT(*) FILTER (WHERE payment_status = 'full_paid'),
		       COALESCE(SUM(total_price), 0),
		       COALESCE(SUM(total_amount_paid), 0),
		       COALESCE(SUM(remaining_amount), 0)
		FROM entries
		WHERE user_id = $1
	`
	s := &models.Summary{}
	err := r.DB.QueryRow(ctx, query, userID).Scan(
		&s.TotalEntries,
		&s.NotPaidCount,
		&s.PartiallyPaidCount,
		&s.FullPaidCount,
		&s.TotalBilled,
		&s.TotalCollected,
		&s.TotalOutstanding,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
