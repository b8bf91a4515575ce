package models

import "fmt"

// ResolutionKind discriminates the variants of [ConflictResolution].
type ResolutionKind string

const (
	ResolutionSkipTransaction ResolutionKind = "skipTransaction"
	ResolutionAdjustAmount    ResolutionKind = "adjustAmount"
	ResolutionMapItem         ResolutionKind = "mapItem"
	ResolutionCreateNewItem   ResolutionKind = "createNewItem"
)

// ConflictResolution is the operator's decision for one conflicting
// transaction. Tagged variant like [ConflictType]: Type selects which
// payload field applies.
type ConflictResolution struct {
	Type ResolutionKind `json:"type"`

	// NewAmount replaces the transaction amount for adjustAmount.
	NewAmount *float64 `json:"newAmount,omitempty"`

	// ItemID is the canonical catalog id to rebind the unknown item name to
	// for mapItem.
	ItemID string `json:"itemId,omitempty"`
}

// SkipTransaction builds the resolution that omits the transaction from the
// merge.
func SkipTransaction() ConflictResolution {
	return ConflictResolution{Type: ResolutionSkipTransaction}
}

// AdjustAmount builds the resolution that merges the transaction with a
// replaced amount.
func AdjustAmount(newAmount float64) ConflictResolution {
	return ConflictResolution{Type: ResolutionAdjustAmount, NewAmount: &newAmount}
}

// MapItem builds the resolution that rebinds the unmatched item name to an
// existing catalog id.
func MapItem(itemID string) ConflictResolution {
	return ConflictResolution{Type: ResolutionMapItem, ItemID: itemID}
}

// CreateNewItem builds the resolution that creates a fresh catalog item from
// the incoming name.
func CreateNewItem() ConflictResolution {
	return ConflictResolution{Type: ResolutionCreateNewItem}
}

// Validate checks the variant's payload invariants.
func (r *ConflictResolution) Validate() error {
	switch r.Type {
	case ResolutionSkipTransaction, ResolutionCreateNewItem:
		return nil
	case ResolutionAdjustAmount:
		if r.NewAmount == nil {
			return fmt.Errorf("adjustAmount resolution requires newAmount")
		}
		return nil
	case ResolutionMapItem:
		if r.ItemID == "" {
			return fmt.Errorf("mapItem resolution requires itemId")
		}
		return nil
	default:
		return fmt.Errorf("unknown resolution type %q", r.Type)
	}
}
