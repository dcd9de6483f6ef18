package repositories

import (
	"context"

	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, COALESCE(phone, ''), password_hash, role,
	       COALESCE(totp_secret, ''), totp_enabled, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.TOTPSecret,
		&u.TOTPEnabled,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (name, email, phone, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, is_active, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role).Scan(
		&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, phone = $3, password_hash = $4, role = $5,
		    is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.DB.Exec(ctx, query, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.IsActive, u.ID)
	return err
}

func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	query := `UPDATE users SET totp_secret = $1, totp_enabled = false, updated_at = NOW() WHERE id = $2`
	_, err := r.DB.Exec(ctx, query, secret, userID)
	return err
}

func (r *UserRepository) EnableTOTP(ctx context.Context, userID int) error {
	query := `UPDATE users SET totp_enabled = true, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, userID)
	return err
}

func (r *UserRepository) DisableTOTP(ctx context.Context, userID int) error {
	query := `UPDATE users SET totp_secret = NULL, totp_enabled = false, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, userID)
	return err
}
