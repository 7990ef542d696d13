package engine

import (
	"context"

	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/shopspring/decimal"
)

// ResolveRate looks up the rate card for a job type. Callers on the pricing
// path map ErrorRecordNotFound to a zero amount with an explicit reason
// instead of failing the request.
func (e *Engine) ResolveRate(ctx context.Context, jobTypeId int) (models.DispatchType, decimal.Decimal, error) {
	rateCard, err := e.store.GetRateCard(ctx, jobTypeId)
	if err != nil {
		return "", decimal.Zero, err
	}
	dispatchType, ok := models.ParseDispatchType(string(rateCard.DispatchType))
	if !ok {
		dispatchType = models.DispatchTypeFixed
	}
	return dispatchType, rateCard.Rate, nil
}
