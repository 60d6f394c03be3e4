// Package models defines data structures for Wealthfolio
package models

import "time"

// User represents a registered account.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	BaseCurrency  string    `json:"base_currency"`
	LiquidEquity  float64   `json:"liquid_equity"`
	MonthlyIncome float64   `json:"monthly_income"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName returns "First Last", falling back to the email address.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}
