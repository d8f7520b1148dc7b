package service

import "errors"

// Failure kinds surfaced to the delivery layer. All service errors wrap exactly
// one of these sentinels so callers can classify with errors.Is.
var (
	// ErrValidation covers missing required fields and bad enum values.
	ErrValidation = errors.New("validation failed")
	// ErrTradeNotFound is returned for an unknown trade ID.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrStoreWrite is returned when an insert, update or delete is not confirmed.
	ErrStoreWrite = errors.New("store write failed")
	// ErrStoreUnavailable is returned for read failures against the store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAttachmentIO is returned when writing a new attachment fails. Failing to
	// delete a replaced file is logged instead; storage may accumulate garbage
	// but a record never ends up with a dangling reference.
	ErrAttachmentIO = errors.New("attachment write failed")
)
