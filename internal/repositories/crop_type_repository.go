package repositories

import (
	"context"

	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CropTypeRepository struct {
	DB *pgxpool.Pool
}

func NewCropTypeRepository(db *pgxpool.Pool) *CropTypeRepository {
	return &CropTypeRepository{DB: db}
}

func (r *CropTypeRepository) Create(ctx context.Context, c *models.CropType) error {
	query := `
		INSERT INTO crop_types (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query, c.Name, c.Description).Scan(&c.ID, &c.CreatedAt)
}

func (r *CropTypeRepository) Get(ctx context.Context, id int) (*models.CropType, error) {
	query := `SELECT id, name, COALESCE(description, ''), created_at FROM crop_types WHERE id = $1`

	c := &models.CropType{}
	err := r.DB.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CropTypeRepository) List(ctx context.Context) ([]*models.CropType, error) {
	query := `SELECT id, name, COALESCE(description, ''), created_at FROM crop_types ORDER BY name`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CropType
	for rows.Next() {
		c := &models.CropType{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

func (r *CropTypeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM crop_types WHERE id = $1`, id)
	return err
}
