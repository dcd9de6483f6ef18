package services

import (
	"context"
	"errors"
	"log"

	"agrobook-backend/internal/cache"
	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/metrics"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/realtime"
	"agrobook-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentService struct {
	DB          *pgxpool.Pool
	PaymentRepo *repositories.PaymentRepository
	EntryRepo   *repositories.EntryRepository
	PersonRepo  *repositories.PersonRepository
	Hub         *realtime.Hub
}

func NewPaymentService(
	db *pgxpool.Pool,
	paymentRepo *repositories.PaymentRepository,
	entryRepo *repositories.EntryRepository,
	personRepo *repositories.PersonRepository,
	hub *realtime.Hub,
) *PaymentService {
	return &PaymentService{
		DB:          db,
		PaymentRepo: paymentRepo,
		EntryRepo:   entryRepo,
		PersonRepo:  personRepo,
		Hub:         hub,
	}
}

// Create applies a payment to an entry. The entry row is locked for the
// duration of the transaction so concurrent payments serialize; the balance
// check happens against the locked snapshot.
//
// A non-empty idempotencyKey makes retries safe: if a payment with that key
// already exists it is returned as-is instead of being applied twice.
func (s *PaymentService) Create(ctx context.Context, userID int, req *models.CreatePaymentRequest, idempotencyKey string) (*models.PaymentResult, error) {
	if idempotencyKey != "" {
		existing, err := s.PaymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			entry, err := s.EntryRepo.Get(ctx, existing.EntryID)
			if err != nil {
				return nil, err
			}
			return &models.PaymentResult{Payment: existing, Entry: entry}, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	paymentDate, err := parseDateInput(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry, err := s.EntryRepo.GetForUpdate(ctx, tx, req.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, pgx.ErrNoRows
	}

	payment, update, err := ledger.ApplyPayment(entry, req.Amount, paymentDate, req.Notes)
	if err != nil {
		var insufficient *ledger.InsufficientRemainingError
		if errors.As(err, &insufficient) {
			metrics.PaymentsRejectedTotal.WithLabelValues("insufficient_remaining").Inc()
		} else {
			metrics.PaymentsRejectedTotal.WithLabelValues("invalid_amount").Inc()
		}
		return nil, err
	}

	payment.IdempotencyKey = idempotencyKey
	payment.CreatedByUserID = userID

	if err := s.PaymentRepo.Create(ctx, tx, payment); err != nil {
		return nil, err
	}
	if err := s.EntryRepo.UpdateBalances(ctx, tx, entry.ID, update); err != nil {
		return nil, err
	}
	if err := s.PersonRepo.RefreshAggregates(ctx, tx, entry.PersonID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	entry.TotalAmountPaid = update.TotalAmountPaid
	entry.RemainingAmount = update.RemainingAmount
	entry.PaymentStatus = update.PaymentStatus
	entry.LastPaymentDate = update.LastPaymentDate

	metrics.PaymentsAppliedTotal.Inc()
	cache.InvalidateLedger(ctx, userID, entry.PersonID)
	s.Hub.Broadcast("payment_created", userID, &models.PaymentResult{Payment: payment, Entry: entry})
	log.Printf("[Payment] Applied %d to entry %d (receipt %s, status %s)",
		payment.Amount, entry.ID, payment.ReceiptNumber, entry.PaymentStatus)

	return &models.PaymentResult{Payment: payment, Entry: entry}, nil
}

// Delete removes a payment and recomputes the entry's balance fields from
// the surviving payment set, treating it as ground truth.
func (s *PaymentService) Delete(ctx context.Context, userID, paymentID int) (*models.Entry, error) {
	payment, err := s.PaymentRepo.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry, err := s.EntryRepo.GetForUpdate(ctx, tx, payment.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, pgx.ErrNoRows
	}

	if err := s.PaymentRepo.Delete(ctx, tx, paymentID); err != nil {
		return nil, err
	}

	remaining, err := s.PaymentRepo.ListByEntryTx(ctx, tx, entry.ID)
	if err != nil {
		return nil, err
	}
	update := ledger.RecomputeFromPayments(entry, remaining)

	if err := s.EntryRepo.UpdateBalances(ctx, tx, entry.ID, update); err != nil {
		return nil, err
	}
	if err := s.PersonRepo.RefreshAggregates(ctx, tx, entry.PersonID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	entry.TotalAmountPaid = update.TotalAmountPaid
	entry.RemainingAmount = update.RemainingAmount
	entry.PaymentStatus = update.PaymentStatus
	entry.LastPaymentDate = update.LastPaymentDate

	cache.InvalidateLedger(ctx, userID, entry.PersonID)
	s.Hub.Broadcast("payment_deleted", userID, entry)
	log.Printf("[Payment] Deleted payment %d from entry %d (status now %s)",
		paymentID, entry.ID, entry.PaymentStatus)

	return entry, nil
}

func (s *PaymentService) Get(ctx context.Context, userID, paymentID int) (*models.Payment, error) {
	payment, err := s.PaymentRepo.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.entryOwnedBy(ctx, userID, payment.EntryID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ListByEntry(ctx context.Context, userID, entryID int) ([]*models.Payment, error) {
	if _, err := s.entryOwnedBy(ctx, userID, entryID); err != nil {
		return nil, err
	}
	return s.PaymentRepo.GetByEntryID(ctx, entryID)
}

func (s *PaymentService) entryOwnedBy(ctx context.Context, userID, entryID int) (*models.Entry, error) {
	entry, err := s.EntryRepo.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return entry, nil
}
