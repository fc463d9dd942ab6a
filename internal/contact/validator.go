package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrValidation is the base error for all field validation failures.
// Callers can match it with errors.Is; the wrapped message names the field.
var ErrValidation = errors.New("validation failed")

const (
	maxNameLength           = 50
	maxAdditionalDataLength = 500
	maxAgeYears             = 150
)

var (
	// Unicode letters, spaces, hyphens and apostrophes
	nameRegexp = regexp.MustCompile(`^[\p{L}\s'-]+$`)
	// Optional leading plus, then 10-15 digits (after stripping separators)
	phoneRegexp = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	// Separators stripped from phone numbers before matching
	phoneSeparators = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")

	titleCaser = cases.Title(language.Und)
)

// NormalizeName trims, validates and title-cases a contact name
func NormalizeName(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, maxNameLength)
	}
	if !nameRegexp.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %s can only contain letters, spaces, hyphens and apostrophes", ErrValidation, field)
	}
	return titleCaser.String(strings.ToLower(trimmed)), nil
}

// NormalizePhone strips separators and validates the digit string
func NormalizePhone(value string) (string, error) {
	cleaned := phoneSeparators.Replace(value)
	if !phoneRegexp.MatchString(cleaned) {
		return "", fmt.Errorf("%w: phone_number must contain 10-15 digits", ErrValidation)
	}
	return cleaned, nil
}

// ValidateEmail checks the address syntax
func ValidateEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return fmt.Errorf("%w: email is not a valid address", ErrValidation)
	}
	return nil
}

// ValidateDateOfBirth rejects future dates and implausible ages.
// Age is measured in days since birth divided by 365.25.
func ValidateDateOfBirth(dob Date, today time.Time) error {
	todayDate := DateOf(today)
	if dob.After(todayDate.Time) {
		return fmt.Errorf("%w: date_of_birth cannot be in the future", ErrValidation)
	}
	ageYears := todayDate.Sub(dob.Time).Hours() / 24 / 365.25
	if ageYears > maxAgeYears {
		return fmt.Errorf("%w: date_of_birth is too far in the past", ErrValidation)
	}
	return nil
}

// ValidateAdditionalData bounds the free-text note
func ValidateAdditionalData(value string) error {
	if utf8.RuneCountInString(value) > maxAdditionalDataLength {
		return fmt.Errorf("%w: additional_data must be at most %d characters", ErrValidation, maxAdditionalDataLength)
	}
	return nil
}

// ValidateCreate normalizes and validates all fields of a new contact.
// Returns the normalized input.
func ValidateCreate(in CreateInput, today time.Time) (CreateInput, error) {
	firstName, err := NormalizeName("first_name", in.FirstName)
	if err != nil {
		return CreateInput{}, err
	}
	lastName, err := NormalizeName("last_name", in.LastName)
	if err != nil {
		return CreateInput{}, err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return CreateInput{}, err
	}
	phone, err := NormalizePhone(in.PhoneNumber)
	if err != nil {
		return CreateInput{}, err
	}
	if err := ValidateDateOfBirth(in.DateOfBirth, today); err != nil {
		return CreateInput{}, err
	}
	if in.AdditionalData != nil {
		if err := ValidateAdditionalData(*in.AdditionalData); err != nil {
			return CreateInput{}, err
		}
	}

	in.FirstName = firstName
	in.LastName = lastName
	in.PhoneNumber = phone
	return in, nil
}

// ValidateUpdate applies the same rules as ValidateCreate, but only to
// the fields the patch actually carries. A field present but empty is
// validated like on create; there is no bypass for clearing fields.
func ValidateUpdate(in UpdateInput, today time.Time) (UpdateInput, error) {
	if in.FirstName != nil {
		firstName, err := NormalizeName("first_name", *in.FirstName)
		if err != nil {
			return UpdateInput{}, err
		}
		in.FirstName = &firstName
	}
	if in.LastName != nil {
		lastName, err := NormalizeName("last_name", *in.LastName)
		if err != nil {
			return UpdateInput{}, err
		}
		in.LastName = &lastName
	}
	if in.Email != nil {
		if err := ValidateEmail(*in.Email); err != nil {
			return UpdateInput{}, err
		}
	}
	if in.PhoneNumber != nil {
		phone, err := NormalizePhone(*in.PhoneNumber)
		if err != nil {
			return UpdateInput{}, err
		}
		in.PhoneNumber = &phone
	}
	if in.DateOfBirth != nil {
		if err := ValidateDateOfBirth(*in.DateOfBirth, today); err != nil {
			return UpdateInput{}, err
		}
	}
	if in.AdditionalData != nil {
		if err := ValidateAdditionalData(*in.AdditionalData); err != nil {
			return UpdateInput{}, err
		}
	}
	return in, nil
}
