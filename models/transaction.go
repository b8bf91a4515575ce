package models

import (
	"fmt"
	"strconv"
)

// TransactionType distinguishes how a transaction moves money relative to
// its account.
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

// TransactionItemRef links a transaction line to a catalog item.
// ItemID is empty when the remote device does not know the local catalog id
// and only carries the item's display name.
type TransactionItemRef struct {
	ItemID   string  `json:"itemId,omitempty"`
	Name     string  `json:"name"`
	Quantity uint32  `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

// Transaction is a single ledger record as exchanged between devices.
// Timestamps (Date, CreatedAt, UpdatedAt) are unix milliseconds to stay
// compatible with the wire format the remote device produces.
type Transaction struct {
	ID             string          `json:"id"`
	Amount         float64         `json:"amount"`
	Date           int64           `json:"date"`
	CreatedAt      int64           `json:"createdAt"`
	UpdatedAt      int64           `json:"updatedAt"`
	Details        string          `json:"details"`
	Type           TransactionType `json:"type"`
	AffectsBalance bool            `json:"affectsBalance"`
	AccountID      string          `json:"accountId"`
	Category       string          `json:"category"`

	StoreName    string               `json:"storeName,omitempty"`
	Items        []TransactionItemRef `json:"items,omitempty"`
	ExtraDetails string               `json:"extraDetails,omitempty"`
}

// IsIncome reports whether the transaction adds money to its account.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionIncome
}

// NaturalKey identifies a transaction by its user-visible content rather than
// its id: two devices that recorded the same purchase independently produce
// different ids but the same natural key. Used for duplicate detection.
func (t *Transaction) NaturalKey() string {
	return fmt.Sprintf("%s|%s|%d|%s", t.AccountID, strconv.FormatFloat(t.Amount, 'f', -1, 64), t.Date, t.Details)
}
