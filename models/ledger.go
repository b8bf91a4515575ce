package models

// Account is a money account known to the local ledger.
type Account struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// Item is a catalog item (a product the user buys repeatedly) known to the
// local ledger.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Brand     string `json:"brand,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// LedgerSnapshot is a consistent point-in-time read model of the local
// ledger, taken once per ingest so that every transaction of a batch is
// classified against the same state.
type LedgerSnapshot struct {
	// Accounts maps account id to the account as of the snapshot.
	Accounts map[string]Account

	// Items is the full item catalog as of the snapshot.
	Items []Item

	// TransactionKeys holds the natural key of every existing transaction
	// (see [Transaction.NaturalKey]) for duplicate detection.
	TransactionKeys map[string]struct{}
}

// HasTransaction reports whether a transaction with the same natural key
// already exists in the snapshot.
func (s *LedgerSnapshot) HasTransaction(t *Transaction) bool {
	_, ok := s.TransactionKeys[t.NaturalKey()]
	return ok
}

// MergePlan is the outcome of resolving a sync batch: the exact writes the
// ledger must apply as one atomic unit.
type MergePlan struct {
	// Transactions are the records to insert, already rewritten according to
	// the operator's resolutions (adjusted amounts, rebound item ids).
	Transactions []Transaction

	// NewItems are catalog items to create before inserting transactions
	// that reference them (createNewItem resolutions).
	NewItems []Item
}

// MergeResult summarizes an applied (or rejected) merge.
type MergeResult struct {
	SyncID       string `json:"syncId"`
	Approved     bool   `json:"approved"`
	Merged       int    `json:"merged"`
	Skipped      int    `json:"skipped"`
	ItemsCreated int    `json:"itemsCreated"`
	Message      string `json:"message"`
}
