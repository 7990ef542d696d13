package engine

import (
	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/shopspring/decimal"
)

const minutesPerDay = 1440

var sixty = decimal.NewFromInt(60)

// HoursBetween converts a start/end time-of-day pair into elapsed hours.
// A negative raw span means the shift crossed midnight, so a day is added.
// Anything still negative after that is malformed input and clamps to zero;
// downstream amounts must never go negative over a time-ordering mistake.
// Returns nil when either side is absent.
func HoursBetween(start, end *models.TimeOfDay) *decimal.Decimal {
	if start == nil || end == nil {
		return nil
	}
	minutes := end.Minutes() - start.Minutes()
	if minutes < 0 {
		minutes += minutesPerDay
	}
	if minutes < 0 {
		minutes = 0
	}
	hours := decimal.NewFromInt(int64(minutes)).Div(sixty)
	return &hours
}
