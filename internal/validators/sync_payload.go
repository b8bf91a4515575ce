package validators

import (
	"context"
	"fmt"
	"math"

	"github.com/MKhiriev/orbit-sync/models"
)

// Field name constants used to specify which fields should be validated.
// Passing one or more of them to Validate restricts validation to that
// subset (field-level scoping); passing none validates everything.
const (
	// FieldTransactions targets structural checks of the transaction list
	// itself (non-empty, unique ids).
	FieldTransactions = "transactions"

	// FieldAccounts targets the account references of each transaction.
	FieldAccounts = "accounts"

	// FieldAmounts targets amount and date sanity of each transaction.
	FieldAmounts = "amounts"

	// FieldItems targets the item references of each transaction.
	FieldItems = "items"
)

type validatorSyncPayload struct{}

// NewSyncPayloadValidator returns the Validator the ingest path runs over an
// uploaded batch before any conflict classification. It accepts
// [models.SyncDataPayload] values (or pointers to them).
func NewSyncPayloadValidator() Validator {
	return &validatorSyncPayload{}
}

func (v *validatorSyncPayload) Validate(_ context.Context, value any, fields ...string) error {
	var payload models.SyncDataPayload
	switch p := value.(type) {
	case models.SyncDataPayload:
		payload = p
	case *models.SyncDataPayload:
		payload = *p
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, value)
	}

	if len(fields) == 0 {
		fields = []string{FieldTransactions, FieldAccounts, FieldAmounts, FieldItems}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldTransactions:
			err = v.validateTransactions(payload)
		case FieldAccounts:
			err = v.validateAccounts(payload)
		case FieldAmounts:
			err = v.validateAmounts(payload)
		case FieldItems:
			err = v.validateItems(payload)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (v *validatorSyncPayload) validateTransactions(payload models.SyncDataPayload) error {
	if len(payload.Transactions) == 0 {
		return ErrEmptyTransactions
	}

	seen := make(map[string]struct{}, len(payload.Transactions))
	for _, t := range payload.Transactions {
		if t.ID == "" {
			return ErrEmptyTransactionID
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTransactionID, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	return nil
}

func (v *validatorSyncPayload) validateAccounts(payload models.SyncDataPayload) error {
	for _, t := range payload.Transactions {
		if t.AccountID == "" {
			return fmt.Errorf("%w: transaction %s", ErrEmptyAccountID, t.ID)
		}
		switch t.Type {
		case models.TransactionIncome, models.TransactionExpense, models.TransactionTransfer:
		default:
			return fmt.Errorf("%w: transaction %s has type %q", ErrInvalidTransactionType, t.ID, t.Type)
		}
	}

	return nil
}

func (v *validatorSyncPayload) validateAmounts(payload models.SyncDataPayload) error {
	for _, t := range payload.Transactions {
		if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount < 0 {
			return fmt.Errorf("%w: transaction %s", ErrInvalidAmount, t.ID)
		}
		if t.Date <= 0 {
			return fmt.Errorf("%w: transaction %s", ErrInvalidDate, t.ID)
		}
	}

	return nil
}

func (v *validatorSyncPayload) validateItems(payload models.SyncDataPayload) error {
	for _, t := range payload.Transactions {
		for _, ref := range t.Items {
			// A ref may omit the catalog id (the host resolves it), but a
			// nameless ref can never be matched or created.
			if ref.Name == "" && ref.ItemID == "" {
				return fmt.Errorf("%w: transaction %s", ErrEmptyItemName, t.ID)
			}
		}
	}

	return nil
}
