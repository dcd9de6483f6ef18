package repositories

import (
	"context"

	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentRepository struct {
	DB *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{DB: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, e *models.Equipment) error {
	query := `
		INSERT INTO equipment (name, description, unit_type, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, is_active, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query, e.Name, e.Description, e.UnitType).Scan(
		&e.ID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *EquipmentRepository) Get(ctx context.Context, id int) (*models.Equipment, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), unit_type, is_active, created_at, updated_at
		FROM equipment
		WHERE id = $1
	`
	e := &models.Equipment{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Description, &e.UnitType, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EquipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), unit_type, is_active, created_at, updated_at
		FROM equipment
		ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Equipment
	for rows.Next() {
		e := &models.Equipment{}
		err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.UnitType, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, e *models.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $1, description = $2, unit_type = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.DB.Exec(ctx, query, e.Name, e.Description, e.UnitType, e.IsActive, e.ID)
	return err
}
