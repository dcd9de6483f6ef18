package services

import (
	"context"
	"errors"

	"agrobook-backend/internal/cache"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PersonService struct {
	DB          *pgxpool.Pool
	PersonRepo  *repositories.PersonRepository
	EntryRepo   *repositories.EntryRepository
	PaymentRepo *repositories.PaymentRepository
}

func NewPersonService(db *pgxpool.Pool, personRepo *repositories.PersonRepository, entryRepo *repositories.EntryRepository, paymentRepo *repositories.PaymentRepository) *PersonService {
	return &PersonService{DB: db, PersonRepo: personRepo, EntryRepo: entryRepo, PaymentRepo: paymentRepo}
}

func (s *PersonService) Create(ctx context.Context, userID int, req *models.CreatePersonRequest) (*models.Person, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	person := &models.Person{
		UserID:  userID,
		Name:    req.Name,
		Phone:   req.Phone,
		Village: req.Village,
	}
	if err := s.PersonRepo.Create(ctx, person); err != nil {
		return nil, err
	}

	cache.InvalidatePerson(ctx, userID, person.ID)
	return person, nil
}

// Get enforces ownership: a person belonging to another user reads as
// missing rather than forbidden. The key carries the requesting user, so a
// hit can only serve the owner.
func (s *PersonService) Get(ctx context.Context, userID, personID int) (*models.Person, error) {
	key := cache.Key("person:%d:%d", userID, personID)
	var cached models.Person
	if cache.GetCached(ctx, key, &cached) {
		return &cached, nil
	}

	person, err := s.PersonRepo.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	if person.UserID != userID {
		return nil, pgx.ErrNoRows
	}

	cache.SetCached(ctx, key, person, cache.DefaultTTL)
	return person, nil
}

func (s *PersonService) List(ctx context.Context, userID int) ([]*models.Person, error) {
	key := cache.Key("persons:%d", userID)
	var cached []*models.Person
	if cache.GetCached(ctx, key, &cached) {
		return cached, nil
	}

	persons, err := s.PersonRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	cache.SetCached(ctx, key, persons, cache.DefaultTTL)
	return persons, nil
}

func (s *PersonService) Update(ctx context.Context, userID, personID int, req *models.UpdatePersonRequest) (*models.Person, error) {
	person, err := s.Get(ctx, userID, personID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		person.Name = req.Name
	}
	person.Phone = req.Phone
	person.Village = req.Village

	if err := s.PersonRepo.Update(ctx, person); err != nil {
		return nil, err
	}

	cache.InvalidatePerson(ctx, userID, personID)
	return person, nil
}

// Statement bundles the person with their full entry and payment history.
func (s *PersonService) Statement(ctx context.Context, userID, personID int) (*models.PersonStatement, error) {
	person, err := s.Get(ctx, userID, personID)
	if err != nil {
		return nil, err
	}

	entries, err := s.EntryRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	return &models.PersonStatement{Person: person, Entries: entries, Payments: payments}, nil
}

// Recalculate rebuilds the person's aggregates from their entries. Normally
// the aggregates are maintained transactionally; this is the admin repair
// path for data imported from outside the API.
func (s *PersonService) Recalculate(ctx context.Context, userID, personID int) (*models.Person, error) {
	if _, err := s.Get(ctx, userID, personID); err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.PersonRepo.RefreshAggregates(ctx, tx, personID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidatePerson(ctx, userID, personID)
	return s.PersonRepo.Get(ctx, personID)
}
