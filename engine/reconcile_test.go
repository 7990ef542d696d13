package engine

import (
	"context"
	"strings"
	"testing"

	"bitbucket.org/roadstar/haulage_backend/models"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
)

func TestValidateAndFixJobAmount(t *testing.T) {
	store := buildInvoiceFixture("10")
	// job 10 prices at 340.00; seed the cache stale.
	store.amounts[[2]int{10, 1}] = decimal.NewFromInt(300)
	e := newTestEngine(store)

	result, err := e.ValidateAndFixJobAmount(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WasValid || !result.WasFixed {
		t.Fatalf("stale cache: expected fixed, got valid=%v fixed=%v", result.WasValid, result.WasFixed)
	}
	assertDecimal(t, "cached amount", result.CachedAmount, "300")
	assertDecimal(t, "calculated amount", result.CalculatedAmount, "340")
	assertDecimal(t, "stored amount", store.amounts[[2]int{10, 1}], "340")
	if store.writeCount() != 1 {
		t.Fatalf("expected 1 write, got %d", store.writeCount())
	}
}

func TestValidateAndFixJobAmount_Idempotent(t *testing.T) {
	store := buildInvoiceFixture("10")
	store.amounts[[2]int{10, 1}] = decimal.NewFromInt(300)
	e := newTestEngine(store)

	if _, err := e.ValidateAndFixJobAmount(context.Background(), 10, 1); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	result, err := e.ValidateAndFixJobAmount(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !result.WasValid || result.WasFixed {
		t.Fatalf("second pass: expected valid with no write, got valid=%v fixed=%v", result.WasValid, result.WasFixed)
	}
	if store.writeCount() != 1 {
		t.Fatalf("second pass must not write again, writes=%d", store.writeCount())
	}
}

func TestValidateAndFixJobAmount_WithinTolerance(t *testing.T) {
	store := buildInvoiceFixture("10")
	// One cent of drift is consistent; no write.
	store.amounts[[2]int{10, 1}] = decimal.RequireFromString("339.99")
	e := newTestEngine(store)

	result, err := e.ValidateAndFixJobAmount(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.WasValid || result.WasFixed {
		t.Fatalf("within tolerance: expected valid, got valid=%v fixed=%v", result.WasValid, result.WasFixed)
	}
	if store.writeCount() != 0 {
		t.Fatalf("expected no writes, got %d", store.writeCount())
	}
}

func TestValidateAndFixJobAmount_NotAssociated(t *testing.T) {
	e := newTestEngine(buildInvoiceFixture("10"))
	if _, err := e.ValidateAndFixJobAmount(context.Background(), 999, 1); err != utils.ErrorNotAssociated {
		t.Fatalf("expected ErrorNotAssociated, got %v", err)
	}
}

func TestValidateInvoiceJobAmounts(t *testing.T) {
	store := buildInvoiceFixture("10")
	// job 10 stale, jobs 11 and 12 already correct.
	store.amounts[[2]int{10, 1}] = decimal.NewFromInt(300)
	store.amounts[[2]int{11, 1}] = decimal.NewFromInt(150)
	store.amounts[[2]int{12, 1}] = decimal.NewFromInt(250)
	e := newTestEngine(store)

	validation, err := e.ValidateInvoiceJobAmounts(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validation.TotalJobs != 3 || validation.ValidJobs != 2 || validation.FixedJobs != 1 {
		t.Fatalf("expected total=3 valid=2 fixed=1, got total=%d valid=%d fixed=%d",
			validation.TotalJobs, validation.ValidJobs, validation.FixedJobs)
	}
	if len(validation.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", validation.Errors)
	}
	if len(validation.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(validation.Results))
	}
	for i, jobId := range []int{10, 11, 12} {
		if validation.Results[i].JobId != jobId {
			t.Fatalf("results out of order: expected job %d at %d, got %d", jobId, i, validation.Results[i].JobId)
		}
	}
}

func TestValidateInvoiceJobAmounts_PartialFailure(t *testing.T) {
	store := buildInvoiceFixture("10")
	store.amounts[[2]int{10, 1}] = decimal.NewFromInt(300)
	store.amounts[[2]int{11, 1}] = decimal.NewFromInt(150)
	delete(store.jobs, 12) // job deleted after invoicing
	e := newTestEngine(store)

	validation, err := e.ValidateInvoiceJobAmounts(context.Background(), 1)
	if err != nil {
		t.Fatalf("a single bad job must not abort the batch: %v", err)
	}
	if validation.ValidJobs != 1 || validation.FixedJobs != 1 {
		t.Fatalf("expected valid=1 fixed=1, got valid=%d fixed=%d", validation.ValidJobs, validation.FixedJobs)
	}
	if len(validation.Errors) != 1 || !strings.Contains(validation.Errors[0], "job 12") {
		t.Fatalf("expected one error naming job 12, got %v", validation.Errors)
	}
}

func TestValidateInvoiceJobAmounts_Cancellation(t *testing.T) {
	store := newFakeStore()
	store.rateCards[2] = *rateCard("Load", "50")
	for jobId := 20; jobId < 26; jobId++ {
		store.jobs[jobId] = models.Job{ID: jobId, JobTypeId: 2, LoadCount: 3}
		store.attach(1, jobId, decimal.NewFromInt(150))
	}

	// Cancel from inside the first validation. The pass must finish whatever
	// is in flight, stop issuing the rest and return cleanly with what it has.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.onRelationshipRead = func(int) { cancel() }

	e := newTestEngine(store)
	e.settings.ReconcileWorkers = 1

	validation, err := e.ValidateInvoiceJobAmounts(ctx, 1)
	if err != nil {
		t.Fatalf("cancellation must not surface as an error: %v", err)
	}
	if validation.TotalJobs != 6 {
		t.Fatalf("expected total=6, got %d", validation.TotalJobs)
	}
	processed := len(validation.Results) + len(validation.Errors)
	if processed == 0 {
		t.Fatal("the in-flight validation must still be reported")
	}
	if processed == validation.TotalJobs {
		t.Fatal("cancellation must stop new validations from being issued")
	}
	if validation.ValidJobs+validation.FixedJobs != len(validation.Results) {
		t.Fatalf("inconsistent summary: valid=%d fixed=%d results=%d",
			validation.ValidJobs, validation.FixedJobs, len(validation.Results))
	}
}

func TestValidateInvoiceJobAmounts_EmptyInvoice(t *testing.T) {
	store := newFakeStore()
	e := newTestEngine(store)
	validation, err := e.ValidateInvoiceJobAmounts(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validation.TotalJobs != 0 || len(validation.Results) != 0 || len(validation.Errors) != 0 {
		t.Fatalf("expected empty validation, got %+v", validation)
	}
}
