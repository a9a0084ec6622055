package services

import (
	"time"

	"tlbc-notify-backend/models"
	"tlbc-notify-backend/utils"
)

// Predicate decides whether a recipient is selected for a dispatch run,
// relative to a reference date.
type Predicate func(r models.Recipient, ref time.Time) bool

// Filter returns the recipients matching pred, preserving input order.
func Filter(recipients []models.Recipient, ref time.Time, pred Predicate) []models.Recipient {
	var out []models.Recipient
	for _, r := range recipients {
		if pred(r, ref) {
			out = append(out, r)
		}
	}
	return out
}

// BirthdayToday matches recipients whose birth month and day equal the
// reference date's, in WAT. The birth year is ignored. A missing or
// unparseable birth date never matches.
func BirthdayToday(r models.Recipient, ref time.Time) bool {
	if r.BirthDate == "" {
		return false
	}
	birth, err := time.ParseInLocation("2006-01-02", r.BirthDate, utils.WAT)
	if err != nil {
		return false
	}
	return utils.SameMonthDay(birth, ref.In(utils.WAT))
}

// HasEmail matches recipients with a non-empty email address.
func HasEmail(r models.Recipient, _ time.Time) bool {
	return r.Email != ""
}

// HasPhone matches recipients with a usable phone number.
func HasPhone(r models.Recipient, _ time.Time) bool {
	return utils.ValidatePhone(r.PhoneNumber)
}

// And combines predicates; all must match.
func And(preds ...Predicate) Predicate {
	return func(r models.Recipient, ref time.Time) bool {
		for _, p := range preds {
			if !p(r, ref) {
				return false
			}
		}
		return true
	}
}
