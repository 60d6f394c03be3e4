package models

import (
	"strings"
	"time"
)

// TransactionType is the canonical (Title-case) transaction type as stored.
type TransactionType string

const (
	TxBuy     TransactionType = "Buy"
	TxSell    TransactionType = "Sell"
	TxIncome  TransactionType = "Income"
	TxExpense TransactionType = "Expense"
)

// CanonicalTransactionType normalizes a raw type string (trim, case-fold) to
// its canonical form. Returns false for anything outside the allowed set.
func CanonicalTransactionType(raw string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return TxBuy, true
	case "sell":
		return TxSell, true
	case "income":
		return TxIncome, true
	case "expense":
		return TxExpense, true
	default:
		return "", false
	}
}

// Increasing reports whether the type adds value to an asset.
// Buy and Income increase; Sell and Expense decrease.
func (t TransactionType) Increasing() bool {
	return t == TxBuy || t == TxIncome
}

// Transaction records a single buy/sell/income/expense against an asset.
// Amount is always stored non-negative, the magnitude of value moved;
// the type carries the direction.
type Transaction struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	AssetID  string          `json:"asset_id"`
	Type     TransactionType `json:"tx_type"`
	Quantity float64         `json:"quantity"`
	Amount   float64         `json:"amount"`
	Date     time.Time       `json:"date"`
	Note     string          `json:"note,omitempty"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	NoteContains string
	Type         TransactionType
	AssetID      string
	From         time.Time
	To           time.Time // exclusive upper bound
}

// Matches reports whether tx passes every set filter field.
func (f TransactionFilter) Matches(tx *Transaction) bool {
	if f.NoteContains != "" && !strings.Contains(strings.ToLower(tx.Note), strings.ToLower(f.NoteContains)) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.AssetID != "" && tx.AssetID != f.AssetID {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !tx.Date.Before(f.To) {
		return false
	}
	return true
}
