package models

// ConflictKind discriminates the variants of [ConflictType].
type ConflictKind string

const (
	ConflictInsufficientBalance  ConflictKind = "insufficientBalance"
	ConflictUnknownItem          ConflictKind = "unknownItem"
	ConflictDuplicateTransaction ConflictKind = "duplicateTransaction"
	ConflictInvalidAccount       ConflictKind = "invalidAccount"
)

// ConflictType is a tagged variant: Type selects which of the optional
// payload fields are meaningful. The flat shape with omitempty fields
// mirrors the JSON the remote device and the approval UI exchange
// ({"type": "insufficientBalance", "accountId": ..., ...}).
//
// Use the constructor functions below instead of building values by hand so
// that each variant carries only its own payload.
type ConflictType struct {
	Type ConflictKind `json:"type"`

	// insufficientBalance payload.
	AccountID      string   `json:"accountId,omitempty"`
	AccountName    string   `json:"accountName,omitempty"`
	CurrentBalance *float64 `json:"currentBalance,omitempty"`
	Required       *float64 `json:"required,omitempty"`

	// unknownItem payload.
	ItemName         string      `json:"itemName,omitempty"`
	SuggestedMatches []ItemMatch `json:"suggestedMatches,omitempty"`
}

// InsufficientBalance builds the variant for a transaction whose amount
// exceeds the account's current balance.
func InsufficientBalance(accountID, accountName string, currentBalance, required float64) ConflictType {
	return ConflictType{
		Type:           ConflictInsufficientBalance,
		AccountID:      accountID,
		AccountName:    accountName,
		CurrentBalance: &currentBalance,
		Required:       &required,
	}
}

// UnknownItem builds the variant for an item name absent from the local
// catalog, carrying similarity-scored candidates.
func UnknownItem(itemName string, matches []ItemMatch) ConflictType {
	return ConflictType{
		Type:             ConflictUnknownItem,
		ItemName:         itemName,
		SuggestedMatches: matches,
	}
}

// DuplicateTransaction builds the variant for a transaction whose natural
// key already exists locally.
func DuplicateTransaction() ConflictType {
	return ConflictType{Type: ConflictDuplicateTransaction}
}

// InvalidAccount builds the variant for a transaction referencing an unknown
// account.
func InvalidAccount() ConflictType {
	return ConflictType{Type: ConflictInvalidAccount}
}

// SyncConflict is one detected reason a transaction cannot be merged
// automatically. Immutable once created; attached to exactly one
// [PendingSyncData].
type SyncConflict struct {
	ConflictType  ConflictType `json:"conflictType"`
	TransactionID string       `json:"transactionId"`
	Description   string       `json:"description"`
	Suggestion    string       `json:"suggestion,omitempty"`
}

// ItemMatch is a similarity-scored catalog candidate for an unknown item
// name. Pure computed value, never persisted.
type ItemMatch struct {
	ItemID          string  `json:"itemId"`
	Name            string  `json:"name"`
	Brand           string  `json:"brand,omitempty"`
	SimilarityScore float64 `json:"similarityScore"`
}
