package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/contacts-api/internal/database"
)

var (
	ErrNotFound       = errors.New("contact not found")
	ErrDuplicateEmail = errors.New("contact email already exists")
)

// Repository handles contact data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new contact
func (r *Repository) Create(ctx context.Context, in CreateInput) (*Contact, error) {
	dbContact := &database.Contact{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		DateOfBirth:    in.DateOfBirth.Time,
		AdditionalData: in.AdditionalData,
	}

	_, err := r.db.NewInsert().
		Model(dbContact).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return mapDBContactToModel(dbContact), nil
}

// GetByID retrieves a contact by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	dbContact := new(database.Contact)
	err := r.db.NewSelect().
		Model(dbContact).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact by id: %w", err)
	}

	return mapDBContactToModel(dbContact), nil
}

// GetByEmail retrieves a contact by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Contact, error) {
	dbContact := new(database.Contact)
	err := r.db.NewSelect().
		Model(dbContact).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact by email: %w", err)
	}

	return mapDBContactToModel(dbContact), nil
}

// List returns a page of contacts plus the total unfiltered count
func (r *Repository) List(ctx context.Context, offset, limit int) ([]Contact, int, error) {
	var dbContacts []database.Contact

	total, err := r.db.NewSelect().
		Model((*database.Contact)(nil)).
		Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	err = r.db.NewSelect().
		Model(&dbContacts).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}

	return mapDBContactsToModels(dbContacts), total, nil
}

// Search returns contacts whose first name, last name or email contains
// the query, case-insensitively, plus the total match count. A blank
// query degrades to List.
func (r *Repository) Search(ctx context.Context, query string, offset, limit int) ([]Contact, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx, offset, limit)
	}

	pattern := "%" + escapeLike(query) + "%"
	matcher := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("first_name ILIKE ?", pattern).
				WhereOr("last_name ILIKE ?", pattern).
				WhereOr("email ILIKE ?", pattern)
		})
	}

	total, err := matcher(r.db.NewSelect().Model((*database.Contact)(nil))).Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	var dbContacts []database.Contact
	err = matcher(r.db.NewSelect().Model(&dbContacts)).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search contacts: %w", err)
	}

	return mapDBContactsToModels(dbContacts), total, nil
}

// UpcomingBirthdays returns contacts whose next birthday falls within
// [today, today+windowDays]. The next occurrence is this year's date,
// or next year's if it already passed, so a late-December window picks
// up early-January birthdays.
func (r *Repository) UpcomingBirthdays(ctx context.Context, windowDays int, today time.Time) ([]Contact, error) {
	var dbContacts []database.Contact
	err := r.db.NewSelect().
		Model(&dbContacts).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	todayDate := DateOf(today)
	upcoming := make([]Contact, 0)
	for i := range dbContacts {
		c := mapDBContactToModel(&dbContacts[i])
		if birthdayInWindow(c.DateOfBirth, todayDate, windowDays) {
			upcoming = append(upcoming, *c)
		}
	}

	return upcoming, nil
}

// Update applies a partial update and returns the updated contact.
// Only the fields present in the patch are written.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch UpdateInput) (*Contact, error) {
	dbContact := new(database.Contact)
	q := r.db.NewUpdate().
		Model(dbContact).
		Where("id = ?", id).
		Set("updated_at = NOW()").
		Returning("*")

	if patch.FirstName != nil {
		q = q.Set("first_name = ?", *patch.FirstName)
	}
	if patch.LastName != nil {
		q = q.Set("last_name = ?", *patch.LastName)
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.PhoneNumber != nil {
		q = q.Set("phone_number = ?", *patch.PhoneNumber)
	}
	if patch.DateOfBirth != nil {
		q = q.Set("date_of_birth = ?", patch.DateOfBirth.Time)
	}
	if patch.AdditionalData != nil {
		q = q.Set("additional_data = ?", *patch.AdditionalData)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return mapDBContactToModel(dbContact), nil
}

// Delete removes a contact and reports whether it existed
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.NewDelete().
		Model((*database.Contact)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ExistsByEmail reports whether a contact with the email exists,
// optionally excluding one contact (used when changing an email on update)
func (r *Repository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.NewSelect().
		Model((*database.Contact)(nil)).
		Where("email = ?", email)

	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check contact email: %w", err)
	}

	return count > 0, nil
}

// escapeLike escapes LIKE pattern metacharacters in user input
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func mapDBContactToModel(dbc *database.Contact) *Contact {
	return &Contact{
		ID:             dbc.ID,
		FirstName:      dbc.FirstName,
		LastName:       dbc.LastName,
		Email:          dbc.Email,
		PhoneNumber:    dbc.PhoneNumber,
		DateOfBirth:    DateOf(dbc.DateOfBirth),
		AdditionalData: dbc.AdditionalData,
		CreatedAt:      dbc.CreatedAt,
		UpdatedAt:      dbc.UpdatedAt,
	}
}

func mapDBContactsToModels(dbContacts []database.Contact) []Contact {
	contacts := make([]Contact, 0, len(dbContacts))
	for i := range dbContacts {
		contacts = append(contacts, *mapDBContactToModel(&dbContacts[i]))
	}
	return contacts
}
