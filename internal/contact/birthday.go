package contact

// nextBirthday returns the next occurrence of a date of birth on or
// after today: this year's date if it hasn't passed yet, otherwise next
// year's. Feb 29 birthdays normalize to Mar 1 in non-leap years.
func nextBirthday(dob Date, today Date) Date {
	next := NewDate(today.Year(), dob.Month(), dob.Day())
	if next.Before(today.Time) {
		next = NewDate(today.Year()+1, dob.Month(), dob.Day())
	}
	return next
}

// birthdayInWindow reports whether the next occurrence of dob falls
// within [today, today+windowDays], inclusive on both ends. The next
// occurrence may be in the following year, which handles the
// Dec 31 -> Jan 1 wraparound.
func birthdayInWindow(dob Date, today Date, windowDays int) bool {
	next := nextBirthday(dob, today)
	end := Date{today.AddDate(0, 0, windowDays)}
	return !next.Before(today.Time) && !next.After(end.Time)
}
