package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun model for the users table.
// CurrentRefreshToken is the single session slot: issuing a new refresh
// token overwrites it, logout nulls it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                  uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email               string    `bun:"email,notnull,unique"`
	PasswordHash        string    `bun:"password_hash,notnull"`
	FirstName           *string   `bun:"first_name"`
	IsConfirmed         bool      `bun:"is_confirmed,notnull,default:false"`
	CurrentRefreshToken *string   `bun:"current_refresh_token"`
	CreatedAt           time.Time `bun:"created_at,notnull,default:now()"`
	UpdatedAt           time.Time `bun:"updated_at,notnull,default:now()"`
}

// Contact is the bun model for the contacts table
type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	FirstName      string    `bun:"first_name,notnull"`
	LastName       string    `bun:"last_name,notnull"`
	Email          string    `bun:"email,notnull,unique"`
	PhoneNumber    string    `bun:"phone_number,notnull"`
	DateOfBirth    time.Time `bun:"date_of_birth,notnull,type:date"`
	AdditionalData *string   `bun:"additional_data"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:now()"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:now()"`
}
