package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	appconfig "agrobook-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service exports the ledger tables as JSON snapshots to an S3-compatible
// bucket (R2 in production) on a fixed interval.
type Service struct {
	client   *s3.Client
	bucket   string
	interval time.Duration
	pool     *pgxpool.Pool
}

func NewService(cfg *appconfig.Config, pool *pgxpool.Pool) (*Service, error) {
	if !cfg.Backup.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Backup.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Backup.AccessKey, cfg.Backup.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load backup credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Backup.Endpoint)
		}
	})

	return &Service{
		client:   client,
		bucket:   cfg.Backup.Bucket,
		interval: time.Duration(cfg.Backup.IntervalHours) * time.Hour,
		pool:     pool,
	}, nil
}

// Start runs the backup loop until ctx is cancelled. One snapshot is taken
// immediately so a fresh deploy has a backup from day one.
func (s *Service) Start(ctx context.Context) {
	log.Printf("[Backup] Scheduler started, interval %s", s.interval)

	if err := s.RunOnce(ctx); err != nil {
		log.Printf("[Backup] Initial backup failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[Backup] Scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				log.Printf("[Backup] Backup failed: %v", err)
			}
		}
	}
}

// RunOnce exports each ledger table to a timestamped JSON object.
func (s *Service) RunOnce(ctx context.Context) error {
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05")

	tables := []string{"persons", "entries", "payments"}
	for _, table := range tables {
		data, err := s.exportTable(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", table, err)
		}

		key := fmt.Sprintf("backups/%s/%s.json", timestamp, table)
		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
	}

	log.Printf("[Backup] Snapshot %s uploaded (%d tables)", timestamp, len(tables))
	return nil
}

// exportTable serializes every row of a table using Postgres' own JSON
// rendering, so the export needs no per-table schema knowledge.
func (s *Service) exportTable(ctx context.Context, table string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT COALESCE(json_agg(t), '[]'::json) FROM %s t`, table)

	var raw json.RawMessage
	if err := s.pool.QueryRow(ctx, query).Scan(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
