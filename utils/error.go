package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorNotAssociated is returned when a job is not attached to the invoice
	// being reconciled.
	ErrorNotAssociated = errors.New("job is not associated with invoice")

	// ErrorMissingDispatcher flags an invoice whose commission source cannot be
	// resolved. Aggregation reports zero totals instead of failing the view.
	ErrorMissingDispatcher = errors.New("invoice has no resolvable dispatcher")
)
