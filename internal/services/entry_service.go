package services

import (
	"context"
	"log"
	"time"

	"agrobook-backend/internal/cache"
	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/metrics"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/realtime"
	"agrobook-backend/internal/repositories"
	"agrobook-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EntryService struct {
	DB            *pgxpool.Pool
	EntryRepo     *repositories.EntryRepository
	PersonRepo    *repositories.PersonRepository
	EquipmentRepo *repositories.EquipmentRepository
	CropTypeRepo  *repositories.CropTypeRepository
	PaymentRepo   *repositories.PaymentRepository
	Hub           *realtime.Hub
}

func NewEntryService(
	db *pgxpool.Pool,
	entryRepo *repositories.EntryRepository,
	personRepo *repositories.PersonRepository,
	equipmentRepo *repositories.EquipmentRepository,
	cropTypeRepo *repositories.CropTypeRepository,
	paymentRepo *repositories.PaymentRepository,
	hub *realtime.Hub,
) *EntryService {
	return &EntryService{
		DB:            db,
		EntryRepo:     entryRepo,
		PersonRepo:    personRepo,
		EquipmentRepo: equipmentRepo,
		CropTypeRepo:  cropTypeRepo,
		PaymentRepo:   paymentRepo,
		Hub:           hub,
	}
}

// parseDateInput accepts YYYY-MM-DD or full RFC 3339 timestamps. Empty input
// returns the zero time, which the ledger engine defaults to now.
func parseDateInput(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := timeutil.ParseDate(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD or RFC 3339"}
	}
	return t, nil
}

// Create validates the referenced person, equipment and crop type, derives
// the balance fields and persists the entry together with the person
// aggregate increments in one transaction.
func (s *EntryService) Create(ctx context.Context, userID int, req *models.CreateEntryRequest) (*models.Entry, error) {
	person, err := s.PersonRepo.Get(ctx, req.PersonID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ledger.ValidationError{Field: "person_id", Reason: "does not exist"}
		}
		return nil, err
	}
	if person.UserID != userID {
		return nil, &ledger.ValidationError{Field: "person_id", Reason: "does not exist"}
	}

	equipment, err := s.EquipmentRepo.Get(ctx, req.EquipmentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ledger.ValidationError{Field: "equipment_id", Reason: "does not exist"}
		}
		return nil, err
	}
	if !equipment.IsActive {
		return nil, &ledger.ValidationError{Field: "equipment_id", Reason: "is not active"}
	}

	if _, err := s.CropTypeRepo.Get(ctx, req.CropTypeID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ledger.ValidationError{Field: "crop_type_id", Reason: "does not exist"}
		}
		return nil, err
	}

	entryDate, err := parseDateInput(req.EntryDate)
	if err != nil {
		return nil, err
	}

	entry, delta, err := ledger.CreateEntry(ledger.EntryInput{
		UserID:       userID,
		PersonID:     req.PersonID,
		EquipmentID:  req.EquipmentID,
		CropTypeID:   req.CropTypeID,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		EntryDate:    entryDate,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.EntryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := s.PersonRepo.ApplyDelta(ctx, tx, entry.PersonID, delta); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	entry.PersonName = person.Name
	metrics.EntriesCreatedTotal.Inc()
	cache.InvalidateLedger(ctx, userID, entry.PersonID)
	s.Hub.Broadcast("entry_created", userID, entry)
	log.Printf("[Entry] Created entry %d for person %d (total %d)", entry.ID, entry.PersonID, entry.TotalPrice)

	return entry, nil
}

func (s *EntryService) Get(ctx context.Context, userID, entryID int) (*models.Entry, error) {
	entry, err := s.EntryRepo.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return entry, nil
}

func (s *EntryService) List(ctx context.Context, filter *models.EntryFilter) (*models.EntryList, error) {
	key := cache.Key("entries:%d:%s:%s:%d:%d",
		filter.UserID, filter.Status, filter.Search, filter.Page, filter.PageSize)
	var cached models.EntryList
	if cache.GetCached(ctx, key, &cached) {
		return &cached, nil
	}

	list, err := s.EntryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	cache.SetCached(ctx, key, list, cache.DefaultTTL)
	return list, nil
}

// Delete removes an entry and all its payments, then rebuilds the person
// aggregates, all in one transaction.
func (s *EntryService) Delete(ctx context.Context, userID, entryID int) error {
	entry, err := s.Get(ctx, userID, entryID)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.PaymentRepo.DeleteByEntry(ctx, tx, entryID); err != nil {
		return err
	}
	if err := s.EntryRepo.Delete(ctx, tx, entryID); err != nil {
		return err
	}
	if err := s.PersonRepo.RefreshAggregates(ctx, tx, entry.PersonID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	cache.InvalidateLedger(ctx, userID, entry.PersonID)
	s.Hub.Broadcast("entry_deleted", userID, map[string]int{"entry_id": entryID})
	log.Printf("[Entry] Deleted entry %d (person %d)", entryID, entry.PersonID)

	return nil
}

func (s *EntryService) Summary(ctx context.Context, userID int) (*models.Summary, error) {
	key := cache.Key("summary:%d", userID)
	var cached models.Summary
	if cache.GetCached(ctx, key, &cached) {
		return &cached, nil
	}

	summary, err := s.EntryRepo.GetSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	cache.SetCached(ctx, key, summary, cache.DefaultTTL)
	return summary, nil
}
