package quote

import "errors"

// Resolver failures, matched with errors.Is at the API boundary.
var (
	// ErrNotFound means the provider has no data for the symbol.
	ErrNotFound = errors.New("ticker not found")

	// ErrUnsupportedCurrency means the instrument is quoted in a
	// currency the contests do not settle in.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidPrice means the provider reported a missing, zero or
	// negative price.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrUnavailable means the provider was unreachable or answered
	// with a non-2xx status.
	ErrUnavailable = errors.New("quote provider unavailable")
)
