package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ValidationResult struct {
	JobId            int             `json:"job_id"`
	WasValid         bool            `json:"was_valid"`
	WasFixed         bool            `json:"was_fixed"`
	CachedAmount     decimal.Decimal `json:"cached_amount"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	ZeroReason       ZeroReason      `json:"zero_reason,omitempty"`
}

type InvoiceValidation struct {
	TotalJobs int                `json:"total_jobs"`
	ValidJobs int                `json:"valid_jobs"`
	FixedJobs int                `json:"fixed_jobs"`
	Results   []ValidationResult `json:"results"`
	Errors    []string           `json:"errors"`
}

// ValidateAndFixJobAmount compares the cached association amount against a
// fresh calculation and repairs drift. Idempotent: once an association is
// within tolerance no write happens, so a second call in a row always reports
// valid and never writes.
func (e *Engine) ValidateAndFixJobAmount(ctx context.Context, jobId int, invoiceId int) (ValidationResult, error) {
	cached, err := e.store.GetRelationshipAmount(ctx, jobId, invoiceId)
	if err != nil {
		return ValidationResult{}, err
	}

	calculated, err := e.CalculateJobAmountById(ctx, jobId)
	if err != nil {
		return ValidationResult{}, err
	}

	result := ValidationResult{
		JobId:            jobId,
		CachedAmount:     cached,
		CalculatedAmount: calculated.Amount,
		ZeroReason:       calculated.ZeroReason,
	}

	if cached.Sub(calculated.Amount).Abs().LessThanOrEqual(e.settings.AmountTolerance) {
		result.WasValid = true
		return result, nil
	}

	// Best-effort redis lock per association; the store's advisory lock is the
	// reliable serialization.
	if lock := e.obtainReconcileLock(ctx, invoiceId, jobId); lock != nil {
		defer func() {
			if releaseErr := lock.Release(ctx); releaseErr != nil {
				e.logger.WithFields(logrus.Fields{
					"field":      "ValidateAndFixJobAmount",
					"invoice_id": invoiceId,
					"job_id":     jobId,
				}).Warn("failed to release redis lock: " + releaseErr.Error())
			}
		}()
	}

	if err := e.store.SetRelationshipAmount(ctx, jobId, invoiceId, calculated.Amount); err != nil {
		return ValidationResult{}, err
	}
	result.WasFixed = true
	return result, nil
}

// ValidateInvoiceJobAmounts reconciles every job attached to an invoice.
// Per-job validations are independent, so a bounded worker pool runs them
// concurrently; the summary is a join over all issued validations. A failure
// on one job lands in Errors without stopping the rest, and cancelling ctx
// stops issuing new validations while keeping results accumulated so far.
func (e *Engine) ValidateInvoiceJobAmounts(ctx context.Context, invoiceId int) (InvoiceValidation, error) {
	invoiceJobs, err := e.store.GetInvoiceJobs(ctx, invoiceId)
	if err != nil {
		return InvoiceValidation{}, err
	}

	validation := InvoiceValidation{
		TotalJobs: len(invoiceJobs),
		Results:   make([]ValidationResult, 0, len(invoiceJobs)),
		Errors:    make([]string, 0),
	}
	if len(invoiceJobs) == 0 {
		return validation, nil
	}

	workers := e.settings.ReconcileWorkers
	if workers > len(invoiceJobs) {
		workers = len(invoiceJobs)
	}

	jobsCh := make(chan models.InvoiceJob)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for invoiceJob := range jobsCh {
				result, err := e.ValidateAndFixJobAmount(ctx, invoiceJob.JobId, invoiceId)
				mu.Lock()
				if err != nil {
					validation.Errors = append(validation.Errors, fmt.Sprintf("job %d: %v", invoiceJob.JobId, err))
				} else {
					validation.Results = append(validation.Results, result)
					if result.WasFixed {
						validation.FixedJobs++
					} else {
						validation.ValidJobs++
					}
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, invoiceJob := range invoiceJobs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobsCh <- invoiceJob:
		}
	}
	close(jobsCh)
	wg.Wait()

	sort.Slice(validation.Results, func(i, j int) bool {
		return validation.Results[i].JobId < validation.Results[j].JobId
	})
	return validation, nil
}

func (e *Engine) obtainReconcileLock(ctx context.Context, invoiceId int, jobId int) *redislock.Lock {
	if e.locker == nil {
		return nil
	}
	key := fmt.Sprintf("lock:reconcile:%d:%d", invoiceId, jobId)
	lock, err := e.locker.Obtain(ctx, key, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		e.logger.WithFields(logrus.Fields{
			"field":      "obtainReconcileLock",
			"invoice_id": invoiceId,
			"job_id":     jobId,
		}).Warn("could not obtain redis lock; proceeding without redis lock")
		return nil
	} else if err != nil {
		e.logger.WithFields(logrus.Fields{
			"field":      "obtainReconcileLock",
			"invoice_id": invoiceId,
			"job_id":     jobId,
		}).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
		return nil
	}
	return lock
}
