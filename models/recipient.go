package models

import "strings"

// Recipient is one membership record as returned by the church API.
// Records are read-only here; the API owns them.
type Recipient struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	BirthDate   string `json:"birth_date"` // ISO date, empty when unset
}

// FullName joins first and last name with a single space, trimmed.
func (r Recipient) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}
