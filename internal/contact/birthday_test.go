package contact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBirthday(t *testing.T) {
	t.Parallel()

	today := NewDate(2024, time.June, 15)

	// Later this year
	next := nextBirthday(NewDate(1990, time.September, 1), today)
	assert.Equal(t, NewDate(2024, time.September, 1), next)

	// Already passed, rolls to next year
	next = nextBirthday(NewDate(1990, time.March, 10), today)
	assert.Equal(t, NewDate(2025, time.March, 10), next)

	// Today counts as this year's occurrence
	next = nextBirthday(NewDate(1990, time.June, 15), today)
	assert.Equal(t, NewDate(2024, time.June, 15), next)
}

func TestNextBirthday_LeapDay(t *testing.T) {
	t.Parallel()

	// Feb 29 normalizes to Mar 1 in non-leap years
	next := nextBirthday(NewDate(1992, time.February, 29), NewDate(2023, time.January, 15))
	assert.Equal(t, NewDate(2023, time.March, 1), next)

	// In a leap year the real date is used
	next = nextBirthday(NewDate(1992, time.February, 29), NewDate(2024, time.January, 15))
	assert.Equal(t, NewDate(2024, time.February, 29), next)
}

func TestBirthdayInWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dob    Date
		today  Date
		window int
		want   bool
	}{
		{
			name:   "today is included",
			dob:    NewDate(1990, time.June, 15),
			today:  NewDate(2024, time.June, 15),
			window: 7,
			want:   true,
		},
		{
			name:   "last day of window is included",
			dob:    NewDate(1990, time.June, 22),
			today:  NewDate(2024, time.June, 15),
			window: 7,
			want:   true,
		},
		{
			name:   "one day past the window",
			dob:    NewDate(1990, time.June, 23),
			today:  NewDate(2024, time.June, 15),
			window: 7,
			want:   false,
		},
		{
			name:   "yesterday's birthday waits a year",
			dob:    NewDate(1990, time.June, 14),
			today:  NewDate(2024, time.June, 15),
			window: 7,
			want:   false,
		},
		{
			name:   "wraps across new year",
			dob:    NewDate(1995, time.January, 2),
			today:  NewDate(2024, time.December, 28),
			window: 7,
			want:   true,
		},
		{
			name:   "december date already passed this year",
			dob:    NewDate(1995, time.December, 20),
			today:  NewDate(2024, time.December, 28),
			window: 7,
			want:   false,
		},
		{
			name:   "new years eve birthday",
			dob:    NewDate(1995, time.December, 31),
			today:  NewDate(2024, time.December, 28),
			window: 7,
			want:   true,
		},
		{
			name:   "full year window catches everything",
			dob:    NewDate(1990, time.June, 14),
			today:  NewDate(2024, time.June, 15),
			window: 365,
			want:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, birthdayInWindow(tc.dob, tc.today, tc.window))
		})
	}
}
