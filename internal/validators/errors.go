package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTransactions      = errors.New("transactions list cannot be empty")
	ErrEmptyTransactionID     = errors.New("transaction id is required")
	ErrDuplicateTransactionID = errors.New("duplicate transaction id in payload")
	ErrEmptyAccountID         = errors.New("account id is required")
	ErrInvalidAmount          = errors.New("amount must be a finite number")
	ErrInvalidDate            = errors.New("date must be a positive unix-millisecond timestamp")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrEmptyItemName          = errors.New("item reference requires a name")
)
