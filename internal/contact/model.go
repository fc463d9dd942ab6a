package contact

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	DateOfBirth    Date      `json:"date_of_birth"`
	AdditionalData *string   `json:"additional_data,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateInput holds the validated, normalized fields for a new contact
type CreateInput struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	DateOfBirth    Date
	AdditionalData *string
}

// UpdateInput is a partial update: nil fields are left untouched,
// non-nil fields are validated and written
type UpdateInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	DateOfBirth    *Date
	AdditionalData *string
}

// IsEmpty reports whether the patch carries no fields at all
func (in UpdateInput) IsEmpty() bool {
	return in.FirstName == nil &&
		in.LastName == nil &&
		in.Email == nil &&
		in.PhoneNumber == nil &&
		in.DateOfBirth == nil &&
		in.AdditionalData == nil
}
