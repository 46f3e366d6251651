package apperrors

import "errors"

var (
	// ErrConnection indicates the datasource could not be reached or
	// rejected the configured credentials.
	ErrConnection = errors.New("cannot connect to datasource")

	// ErrNoTables indicates schema reflection produced no usable tables.
	ErrNoTables = errors.New("schema reflection returned no usable tables")

	// ErrNotConnected indicates a query was attempted before the session
	// established its datasource connection. This is an orchestrator
	// invariant violation, not a recoverable runtime condition.
	ErrNotConnected = errors.New("datasource is not connected")
)
