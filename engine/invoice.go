package engine

import (
	"context"
	"errors"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type InvoiceCalculation struct {
	SubTotal   decimal.Decimal `json:"sub_total"`
	Commission decimal.Decimal `json:"commission"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`

	// MissingDispatcher flags an invoice whose commission source could not be
	// resolved. Totals are zero in that case; the invoice stays viewable.
	MissingDispatcher bool `json:"missing_dispatcher,omitempty"`
}

// CalculateInvoiceTotals recomputes an invoice from current job data. The
// possibly-stale relationship amounts are never summed here.
//
// Commission is dispatcher revenue deducted from the carrier's subtotal:
// tax applies to (subTotal - commission) and total = subTotal - commission + tax.
// Each stage is independently rounded to 2 decimal places before feeding the
// next; this staged rounding is load-bearing for output compatibility.
func (e *Engine) CalculateInvoiceTotals(ctx context.Context, invoiceId int) (InvoiceCalculation, error) {
	invoice, err := e.store.GetInvoice(ctx, invoiceId)
	if err != nil {
		return InvoiceCalculation{}, err
	}

	if invoice.DispatcherId == 0 {
		return e.missingDispatcher(invoiceId), nil
	}
	commissionPercent, err := e.store.GetDispatcherCommission(ctx, invoice.DispatcherId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return e.missingDispatcher(invoiceId), nil
		}
		return InvoiceCalculation{}, err
	}

	invoiceJobs, err := e.store.GetInvoiceJobs(ctx, invoiceId)
	if err != nil {
		return InvoiceCalculation{}, err
	}

	subTotal := decimal.Zero
	for _, invoiceJob := range invoiceJobs {
		jobAmount, err := e.CalculateJobAmountById(ctx, invoiceJob.JobId)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				// A vanished job contributes nothing; the reconciler reports it.
				config.LogError(e.logger, "invoice.go", "CalculateInvoiceTotals", "pricing attached job", invoiceJob.JobId, err)
				continue
			}
			return InvoiceCalculation{}, err
		}
		subTotal = subTotal.Add(jobAmount.Amount)
	}

	subTotal = subTotal.Round(2)
	commissionRate := commissionPercent.Div(oneHundred)
	commission := subTotal.Mul(commissionRate).Round(2)
	taxRate := e.settings.TaxRatePercent.Div(oneHundred)
	tax := subTotal.Sub(commission).Mul(taxRate).Round(2)
	total := subTotal.Sub(commission).Add(tax).Round(2)

	return InvoiceCalculation{
		SubTotal:   subTotal,
		Commission: commission,
		Tax:        tax,
		Total:      total,
	}, nil
}

func (e *Engine) missingDispatcher(invoiceId int) InvoiceCalculation {
	config.LogError(e.logger, "invoice.go", "CalculateInvoiceTotals", "resolving dispatcher", invoiceId, utils.ErrorMissingDispatcher)
	return InvoiceCalculation{MissingDispatcher: true}
}
