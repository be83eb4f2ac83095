package domain

import "errors"

// Every rejected operation surfaces one of these so callers can assert
// on cause with errors.Is.
var (
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidRoyalty   = errors.New("royalty basis points out of range")
	ErrInvalidFee       = errors.New("service fee basis points out of range")
	ErrNotFound         = errors.New("not found")
	ErrSoldOut          = errors.New("sold out")
	ErrIncorrectPayment = errors.New("incorrect payment amount")
	ErrFeeOverflow      = errors.New("fees exceed payment amount")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidState     = errors.New("offer is not open")
	ErrDuplicateRequest = errors.New("duplicate request")
)
