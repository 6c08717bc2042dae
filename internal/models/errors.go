package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatchFound        = errors.New("no matching deposit found")
	ErrInsufficientResults = fmt.Errorf("%w: not enough matching deposits for the selection index", ErrNoMatchFound)
	ErrInvalidPreferences  = errors.New("invalid preferences")
)

// CatalogSchemaError reports a missing or malformed catalog column.
// Row is the 1-based data row, zero when the problem is in the header.
type CatalogSchemaError struct {
	Column string
	Row    int
	Reason string
}

func (e *CatalogSchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("catalog schema: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("catalog schema: row %d, column %q: %s", e.Row, e.Column, e.Reason)
}
