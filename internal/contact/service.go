package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/contacts-api/internal/logging"
)

const (
	minBirthdayWindowDays = 1
	maxBirthdayWindowDays = 365
)

// Store defines the contact persistence operations the service needs
type Store interface {
	Create(ctx context.Context, in CreateInput) (*Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	List(ctx context.Context, offset, limit int) ([]Contact, int, error)
	Search(ctx context.Context, query string, offset, limit int) ([]Contact, int, error)
	UpcomingBirthdays(ctx context.Context, windowDays int, today time.Time) ([]Contact, error)
	Update(ctx context.Context, id uuid.UUID, patch UpdateInput) (*Contact, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
}

// Service handles contact business logic
type Service struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateContact validates, normalizes and persists a new contact.
// The email existence pre-check gives a friendly error early; the
// storage unique constraint is the backstop under concurrent creates.
func (s *Service) CreateContact(ctx context.Context, in CreateInput) (*Contact, error) {
	validated, err := ValidateCreate(in, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.store.ExistsByEmail(ctx, validated.Email, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check contact email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	created, err := s.store.Create(ctx, validated)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetContact retrieves a single contact
func (s *Service) GetContact(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.store.GetByID(ctx, id)
}

// ListContacts returns a page of contacts plus the total count
func (s *Service) ListContacts(ctx context.Context, offset, limit int) ([]Contact, int, error) {
	return s.store.List(ctx, offset, limit)
}

// SearchContacts matches the query against first name, last name and
// email. A blank query degrades to a plain listing.
func (s *Service) SearchContacts(ctx context.Context, query string, offset, limit int) ([]Contact, int, error) {
	return s.store.Search(ctx, query, offset, limit)
}

// UpcomingBirthdays returns contacts with a birthday in the next
// windowDays days, inclusive, handling the year-end wraparound
func (s *Service) UpcomingBirthdays(ctx context.Context, windowDays int) ([]Contact, error) {
	if windowDays < minBirthdayWindowDays || windowDays > maxBirthdayWindowDays {
		return nil, fmt.Errorf("%w: days must be between %d and %d", ErrValidation, minBirthdayWindowDays, maxBirthdayWindowDays)
	}
	return s.store.UpcomingBirthdays(ctx, windowDays, s.now())
}

// UpdateContact applies a partial update. If the email is being
// changed, uniqueness is re-checked excluding the contact itself.
func (s *Service) UpdateContact(ctx context.Context, id uuid.UUID, patch UpdateInput) (*Contact, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validated, err := ValidateUpdate(patch, s.now())
	if err != nil {
		return nil, err
	}

	if validated.Email != nil && *validated.Email != existing.Email {
		exists, err := s.store.ExistsByEmail(ctx, *validated.Email, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check contact email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
	}

	updated, err := s.store.Update(ctx, id, validated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteContact removes a contact, failing if it does not exist
func (s *Service) DeleteContact(ctx context.Context, id uuid.UUID) error {
	existed, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}
