package contact

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "john", want: "John"},
		{name: "uppercase", input: "JOHN", want: "John"},
		{name: "mixed case", input: "jOhN", want: "John"},
		{name: "surrounding whitespace", input: "  anna  ", want: "Anna"},
		{name: "hyphenated", input: "mary-jane", want: "Mary-Jane"},
		{name: "apostrophe", input: "o'brien", want: "O'brien"},
		{name: "two words", input: "de la cruz", want: "De La Cruz"},
		{name: "accented letters", input: "josé", want: "José"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeName("first_name", tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeName_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "digits", input: "john3"},
		{name: "punctuation", input: "john!"},
		{name: "too long", input: strings.Repeat("a", 51)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeName("first_name", tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "digits only", input: "5551234567", want: "5551234567"},
		{name: "dashes", input: "555-123-4567", want: "5551234567"},
		{name: "spaces and parens", input: "(555) 123 4567", want: "5551234567"},
		{name: "international", input: "+420 603 123 456", want: "+420603123456"},
		{name: "fifteen digits", input: "123456789012345", want: "123456789012345"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "too short", input: "123456789"},
		{name: "too long", input: "1234567890123456"},
		{name: "letters", input: "555-CALL-NOW"},
		{name: "empty", input: ""},
		{name: "plus in the middle", input: "555+1234567"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizePhone(tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateEmail("alice@example.com"))

	assert.ErrorIs(t, ValidateEmail(""), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("not-an-email"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("@example.com"), ErrValidation)
}

func TestValidateDateOfBirth(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 15, 12, 30, 0, 0, time.UTC)

	require.NoError(t, ValidateDateOfBirth(NewDate(1990, time.March, 10), today))
	require.NoError(t, ValidateDateOfBirth(NewDate(2024, time.June, 15), today))

	// Tomorrow is in the future
	err := ValidateDateOfBirth(NewDate(2024, time.June, 16), today)
	assert.ErrorIs(t, err, ErrValidation)

	// 200 years old is implausible
	err = ValidateDateOfBirth(NewDate(1824, time.June, 15), today)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateAdditionalData(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateAdditionalData(""))
	require.NoError(t, ValidateAdditionalData(strings.Repeat("x", 500)))

	assert.ErrorIs(t, ValidateAdditionalData(strings.Repeat("x", 501)), ErrValidation)
}

func TestValidateCreate_NormalizesAllFields(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	got, err := ValidateCreate(CreateInput{
		FirstName:   "  john ",
		LastName:    "SMITH",
		Email:       "john@example.com",
		PhoneNumber: "555-123-4567",
		DateOfBirth: NewDate(1990, time.March, 10),
	}, today)
	require.NoError(t, err)

	assert.Equal(t, "John", got.FirstName)
	assert.Equal(t, "Smith", got.LastName)
	assert.Equal(t, "5551234567", got.PhoneNumber)
}

func TestValidateCreate_RejectsBadField(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	_, err := ValidateCreate(CreateInput{
		FirstName:   "John",
		LastName:    "Smith",
		Email:       "bad email",
		PhoneNumber: "5551234567",
		DateOfBirth: NewDate(1990, time.March, 10),
	}, today)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateUpdate_OnlySuppliedFields(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	firstName := "  anna "
	got, err := ValidateUpdate(UpdateInput{FirstName: &firstName}, today)
	require.NoError(t, err)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Anna", *got.FirstName)
	assert.Nil(t, got.LastName)
	assert.Nil(t, got.PhoneNumber)
}

func TestValidateUpdate_SuppliedEmptyFieldFails(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	// A present-but-empty field is not a way to clear a value
	empty := ""
	_, err := ValidateUpdate(UpdateInput{FirstName: &empty}, today)
	assert.ErrorIs(t, err, ErrValidation)
}
