package service

import (
	"fmt"

	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/matcher"
	"github.com/MKhiriev/orbit-sync/models"
)

type conflictDetector struct {
	matcher        *matcher.Matcher
	maxSuggestions int
}

// NewConflictDetector wires the rule set that decides whether an incoming
// transaction merges cleanly or needs operator review.
func NewConflictDetector(cfg config.Sync) ConflictDetector {
	return &conflictDetector{
		matcher:        matcher.New(cfg.MinSimilarity),
		maxSuggestions: cfg.MaxSuggestions,
	}
}

// Classify runs the detection rules in fixed priority order and returns the
// first conflict found, or nil for a clean transaction. One conflict per
// transaction keeps the approval UI simple: fixing the reported problem and
// resyncing surfaces the next one, if any.
func (d *conflictDetector) Classify(t *models.Transaction, snapshot *models.LedgerSnapshot) *models.SyncConflict {
	if conflict := d.checkAccount(t, snapshot); conflict != nil {
		return conflict
	}
	if conflict := d.checkBalance(t, snapshot); conflict != nil {
		return conflict
	}
	if conflict := d.checkItems(t, snapshot); conflict != nil {
		return conflict
	}
	return d.checkDuplicate(t, snapshot)
}

func (d *conflictDetector) checkAccount(t *models.Transaction, snapshot *models.LedgerSnapshot) *models.SyncConflict {
	if _, ok := snapshot.Accounts[t.AccountID]; ok {
		return nil
	}

	return &models.SyncConflict{
		ConflictType:  models.InvalidAccount(),
		TransactionID: t.ID,
		Description:   fmt.Sprintf("Transaction references unknown account '%s'", t.AccountID),
		Suggestion:    "Skip this transaction or create the account first",
	}
}

func (d *conflictDetector) checkBalance(t *models.Transaction, snapshot *models.LedgerSnapshot) *models.SyncConflict {
	if !t.AffectsBalance || t.IsIncome() {
		return nil
	}

	account := snapshot.Accounts[t.AccountID]
	if t.Amount <= account.Balance {
		return nil
	}

	return &models.SyncConflict{
		ConflictType:  models.InsufficientBalance(account.ID, account.Name, account.Balance, t.Amount),
		TransactionID: t.ID,
		Description:   fmt.Sprintf("Transaction amount $%.2f exceeds account '%s' balance $%.2f", t.Amount, account.Name, account.Balance),
		Suggestion:    "Adjust the amount or skip this transaction",
	}
}

func (d *conflictDetector) checkItems(t *models.Transaction, snapshot *models.LedgerSnapshot) *models.SyncConflict {
	for _, ref := range t.Items {
		// Refs already bound to a catalog item are canonical; only unbound
		// names go through fuzzy matching.
		if ref.ItemID != "" || ref.Name == "" || matcher.KnownName(ref.Name, snapshot.Items) {
			continue
		}

		matches := d.matcher.Suggest(ref.Name, snapshot.Items, d.maxSuggestions)
		suggestion := "Create a new item or skip this transaction"
		if len(matches) > 0 {
			suggestion = fmt.Sprintf("Map to an existing item such as '%s', create a new one, or skip", matches[0].Name)
		}

		return &models.SyncConflict{
			ConflictType:  models.UnknownItem(ref.Name, matches),
			TransactionID: t.ID,
			Description:   fmt.Sprintf("Item '%s' is not in the local catalog", ref.Name),
			Suggestion:    suggestion,
		}
	}
	return nil
}

func (d *conflictDetector) checkDuplicate(t *models.Transaction, snapshot *models.LedgerSnapshot) *models.SyncConflict {
	if !snapshot.HasTransaction(t) {
		return nil
	}

	return &models.SyncConflict{
		ConflictType:  models.DuplicateTransaction(),
		TransactionID: t.ID,
		Description:   fmt.Sprintf("A transaction with the same account, amount, date and details already exists ('%s')", t.Details),
		Suggestion:    "Skip this transaction unless it is genuinely a repeat purchase",
	}
}
