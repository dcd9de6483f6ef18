package repositories

import (
	"context"

	"agrobook-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LoginLogRepository struct {
	DB *pgxpool.Pool
}

func NewLoginLogRepository(db *pgxpool.Pool) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

func (r *LoginLogRepository) Create(ctx context.Context, userID int, ipAddress, userAgent string) error {
	query := `INSERT INTO login_logs (user_id, ip_address, user_agent) VALUES ($1, $2, $3)`
	_, err := r.DB.Exec(ctx, query, userID, ipAddress, userAgent)
	return err
}

func (r *LoginLogRepository) List(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT l.id, l.user_id, COALESCE(u.name, 'Unknown'), l.ip_address, l.user_agent, l.login_time
		FROM login_logs l
		LEFT JOIN users u ON l.user_id = u.id
		ORDER BY l.login_time DESC
		LIMIT $1
	`
	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LoginLog
	for rows.Next() {
		l := &models.LoginLog{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.UserName, &l.IPAddress, &l.UserAgent, &l.LoginTime); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}
