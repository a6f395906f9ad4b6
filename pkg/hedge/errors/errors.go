package errors

import "errors"

var (
	// Option errors ⚙️
	ErrInvalidVariant = errors.New("❌ invalid archive variant")
	ErrOutOfRange     = errors.New("❌ value out of unsigned 32-bit range")

	// Format errors 📦
	ErrInvalidHeader      = errors.New("❌ invalid archive header")
	ErrTruncatedEntry     = errors.New("❌ truncated archive entry")
	ErrInvalidARL         = errors.New("❌ invalid ARL file")
	ErrUnsupportedVariant = errors.New("❌ archive variant not supported for saving")

	// Entry errors 📂
	ErrDuplicateEntry = errors.New("❌ duplicate entry name")
	ErrInvalidName    = errors.New("❌ invalid entry name")
	ErrTooManySplits  = errors.New("❌ too many archive splits")
	ErrEntryTooLarge  = errors.New("❌ entry exceeds 32-bit size")

	// Lookup errors 🔍
	ErrArchiveNotFound = errors.New("❌ archive not found")
)
