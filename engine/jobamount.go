package engine

import (
	"context"
	"errors"

	"bitbucket.org/roadstar/haulage_backend/models"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
)

// ZeroReason distinguishes a zero produced by a fallback path from a
// legitimately computed zero. It is carried through API responses for
// diagnostics and never suppressed.
type ZeroReason string

const (
	ZeroReasonMissingTimes    ZeroReason = "missing_times"
	ZeroReasonMissingRateCard ZeroReason = "missing_rate_card"
	ZeroReasonNoLoads         ZeroReason = "no_loads"
	ZeroReasonNoWeight        ZeroReason = "no_weight"
)

type JobAmount struct {
	Amount     decimal.Decimal  `json:"amount"`
	Hours      *decimal.Decimal `json:"hours,omitempty"`
	ZeroReason ZeroReason       `json:"zero_reason,omitempty"`
}

// CalculateJobAmount derives a job's amount from its rate card. Pure and
// deterministic: identical inputs always yield identical output. The branch
// is taken on the rate card's dispatch type; job fields irrelevant to that
// type are ignored regardless of presence. Rounded to 2 decimal places at
// the point of return.
func CalculateJobAmount(job *models.Job, rateCard *models.JobType) JobAmount {
	if rateCard == nil {
		return JobAmount{Amount: decimal.Zero, ZeroReason: ZeroReasonMissingRateCard}
	}

	dispatchType, _ := models.ParseDispatchType(string(rateCard.DispatchType))
	rate := rateCard.Rate

	var result JobAmount
	switch dispatchType {
	case models.DispatchTypeHourly:
		hours := HoursBetween(job.StartTime, job.EndTime)
		if hours == nil {
			result = JobAmount{Amount: decimal.Zero, ZeroReason: ZeroReasonMissingTimes}
			break
		}
		result = JobAmount{Amount: hours.Mul(rate), Hours: hours}
	case models.DispatchTypeLoad:
		if job.LoadCount <= 0 {
			result = JobAmount{Amount: decimal.Zero, ZeroReason: ZeroReasonNoLoads}
			break
		}
		result = JobAmount{Amount: decimal.NewFromInt(int64(job.LoadCount)).Mul(rate)}
	case models.DispatchTypeTonnage:
		weights := NormalizeWeight(job.Weight)
		if len(weights) == 0 {
			result = JobAmount{Amount: decimal.Zero, ZeroReason: ZeroReasonNoWeight}
			break
		}
		result = JobAmount{Amount: SumWeights(weights).Mul(rate)}
	default:
		// Fixed, and any unseen classification: flat rate. The permissive
		// fallback keeps unrecognized dispatch types billable.
		result = JobAmount{Amount: rate}
	}

	result.Amount = result.Amount.Round(2)
	return result
}

// CalculateJobAmountById prices a stored job. A job whose rate card has been
// deleted prices at zero with an explicit reason; a missing job record is a
// hard error for the caller.
func (e *Engine) CalculateJobAmountById(ctx context.Context, jobId int) (JobAmount, error) {
	job, rateCard, err := e.store.GetJobWithRateCard(ctx, jobId)
	if err != nil {
		return JobAmount{}, err
	}
	return CalculateJobAmount(job, e.effectiveRateCard(rateCard)), nil
}

// CalculateJobHours exposes the elapsed-hours field resolver.
func (e *Engine) CalculateJobHours(ctx context.Context, jobId int) (*decimal.Decimal, error) {
	job, _, err := e.store.GetJobWithRateCard(ctx, jobId)
	if err != nil {
		return nil, err
	}
	return HoursBetween(job.StartTime, job.EndTime), nil
}

// effectiveRateCard substitutes the deployment default for hourly rate cards
// that carry a zero rate.
func (e *Engine) effectiveRateCard(rateCard *models.JobType) *models.JobType {
	if rateCard == nil {
		return nil
	}
	dispatchType, _ := models.ParseDispatchType(string(rateCard.DispatchType))
	if dispatchType == models.DispatchTypeHourly && rateCard.Rate.IsZero() && e.settings.DefaultHourlyRate.IsPositive() {
		substituted := *rateCard
		substituted.Rate = e.settings.DefaultHourlyRate
		return &substituted
	}
	return rateCard
}

// IsNotFound reports whether err is the record store's not-found signal.
func IsNotFound(err error) bool {
	return errors.Is(err, utils.ErrorRecordNotFound)
}
