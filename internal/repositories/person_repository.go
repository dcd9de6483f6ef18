package repositories

import (
	"context"
	"fmt"

	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PersonRepository struct {
	DB *pgxpool.Pool
}

func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{DB: db}
}

const personColumns = `id, user_id, name, COALESCE(phone, ''), COALESCE(village, ''),
	       total_amount, paid_amount, remaining_amount, created_at, updated_at`

func scanPerson(row pgx.Row) (*models.Person, error) {
	p := &models.Person{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Phone,
		&p.Village,
		&p.TotalAmount,
		&p.PaidAmount,
		&p.RemainingAmount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PersonRepository) Create(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO persons (user_id, name, phone, village)
		VALUES ($1, $2, $3, $4)
		RETURNING id, total_amount, paid_amount, remaining_amount, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query, p.UserID, p.Name, p.Phone, p.Village).Scan(
		&p.ID, &p.TotalAmount, &p.PaidAmount, &p.RemainingAmount, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *PersonRepository) Get(ctx context.Context, id int) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`
	return scanPerson(r.DB.QueryRow(ctx, query, id))
}

func (r *PersonRepository) List(ctx context.Context, userID int) ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE user_id = $1 ORDER BY name`

	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func (r *PersonRepository) Update(ctx context.Context, p *models.Person) error {
	query := `
		UPDATE persons
		SET name = $1, phone = $2, village = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.DB.Exec(ctx, query, p.Name, p.Phone, p.Village, p.ID)
	return err
}

// ApplyDelta increments the person's aggregates inside an entry-creation
// transaction. paid_amount is untouched: entry creation never records money.
func (r *PersonRepository) ApplyDelta(ctx context.Context, tx pgx.Tx, personID int, delta ledger.PersonDelta) error {
	query := `
		UPDATE persons
		SET total_amount = total_amount + $1,
		    remaining_amount = remaining_amount + $2,
		    updated_at = NOW()
		WHERE id = $3
	`
	tag, err := tx.Exec(ctx, query, delta.TotalAmountIncrement, delta.RemainingAmountIncrement, personID)
	if err != nil {
		return fmt.Errorf("failed to apply person delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RefreshAggregates rebuilds the person's totals from their entries. Runs in
// the same transaction as any payment-state change so the materialized view
// can never be observed out of sync with the entry rows.
func (r *PersonRepository) RefreshAggregates(ctx context.Context, tx pgx.Tx, personID int) error {
	query := `
		UPDATE persons p
		SET total_amount = agg.total,
		    paid_amount = agg.paid,
		    remaining_amount = agg.remaining,
		    updated_at = NOW()
		FROM (
			SELECT COALESCE(SUM(total_price), 0) AS total,
			       COALESCE(SUM(total_amount_paid), 0) AS paid,
			       COALESCE(SUM(remaining_amount), 0) AS remaining
			FROM entries WHERE person_id = $1
		) agg
		WHERE p.id = $1
	`
	if _, err := tx.Exec(ctx, query, personID); err != nil {
		return fmt.Errorf("failed to refresh person aggregates: %w", err)
	}
	return nil
}
