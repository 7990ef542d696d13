package engine

import (
	"context"
	"testing"

	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/shopspring/decimal"
)

func rateCard(dispatchType string, rate string) *models.JobType {
	r, _ := decimal.NewFromString(rate)
	return &models.JobType{ID: 1, Name: "test", DispatchType: models.DispatchType(dispatchType), Rate: r}
}

func TestCalculateJobAmount(t *testing.T) {
	cases := []struct {
		name       string
		job        models.Job
		rateCard   *models.JobType
		expected   string
		zeroReason ZeroReason
	}{
		{
			name:     "hourly same day",
			job:      models.Job{StartTime: timePtr(8, 0), EndTime: timePtr(16, 30)},
			rateCard: rateCard("Hourly", "85"),
			expected: "722.5",
		},
		{
			name:     "hourly overnight shift",
			job:      models.Job{StartTime: timePtr(22, 0), EndTime: timePtr(2, 0)},
			rateCard: rateCard("Hourly", "85"),
			expected: "340",
		},
		{
			name:       "hourly missing times",
			job:        models.Job{},
			rateCard:   rateCard("Hourly", "85"),
			expected:   "0",
			zeroReason: ZeroReasonMissingTimes,
		},
		{
			name:     "load count times rate",
			job:      models.Job{LoadCount: 3},
			rateCard: rateCard("Load", "50"),
			expected: "150",
		},
		{
			name:       "load with zero loads",
			job:        models.Job{},
			rateCard:   rateCard("Load", "50"),
			expected:   "0",
			zeroReason: ZeroReasonNoLoads,
		},
		{
			name:     "tonnage from json array weight",
			job:      models.Job{Weight: `[10.5, 9.5]`},
			rateCard: rateCard("Tonnage", "12.5"),
			expected: "250",
		},
		{
			name:     "tonnage from token weight",
			job:      models.Job{Weight: "10.5 9.5"},
			rateCard: rateCard("Tonnage", "12.5"),
			expected: "250",
		},
		{
			name:       "tonnage without weight",
			job:        models.Job{Weight: ""},
			rateCard:   rateCard("Tonnage", "12.5"),
			expected:   "0",
			zeroReason: ZeroReasonNoWeight,
		},
		{
			name:     "fixed ignores job fields",
			job:      models.Job{StartTime: timePtr(8, 0), EndTime: timePtr(9, 0), LoadCount: 7, Weight: "99"},
			rateCard: rateCard("Fixed", "500"),
			expected: "500",
		},
		{
			name:     "dispatch type is case insensitive",
			job:      models.Job{LoadCount: 2},
			rateCard: rateCard("load", "50"),
			expected: "100",
		},
		{
			name:     "unrecognized type bills flat",
			job:      models.Job{LoadCount: 9},
			rateCard: rateCard("Hotshot", "275"),
			expected: "275",
		},
		{
			name:     "rounds to two decimal places",
			job:      models.Job{StartTime: timePtr(9, 0), EndTime: timePtr(9, 20)},
			rateCard: rateCard("Hourly", "100"),
			expected: "33.33",
		},
	}
	for _, tc := range cases {
		result := CalculateJobAmount(&tc.job, tc.rateCard)
		if result.Amount.String() != tc.expected {
			t.Fatalf("%s: expected amount %s, got %s", tc.name, tc.expected, result.Amount.String())
		}
		if result.ZeroReason != tc.zeroReason {
			t.Fatalf("%s: expected zero reason %q, got %q", tc.name, tc.zeroReason, result.ZeroReason)
		}
	}
}

func TestCalculateJobAmount_MissingRateCard(t *testing.T) {
	result := CalculateJobAmount(&models.Job{LoadCount: 3}, nil)
	if !result.Amount.IsZero() {
		t.Fatalf("expected zero amount, got %s", result.Amount.String())
	}
	if result.ZeroReason != ZeroReasonMissingRateCard {
		t.Fatalf("expected zero reason %q, got %q", ZeroReasonMissingRateCard, result.ZeroReason)
	}
}

func TestCalculateJobAmount_Deterministic(t *testing.T) {
	job := models.Job{StartTime: timePtr(22, 0), EndTime: timePtr(2, 0), LoadCount: 3, Weight: "1 2 3"}
	card := rateCard("Hourly", "85")
	first := CalculateJobAmount(&job, card)
	for i := 0; i < 10; i++ {
		again := CalculateJobAmount(&job, card)
		if !again.Amount.Equal(first.Amount) {
			t.Fatalf("amount changed between runs: %s then %s", first.Amount.String(), again.Amount.String())
		}
	}
}

func TestCalculateJobAmountById(t *testing.T) {
	store := newFakeStore()
	store.rateCards[1] = *rateCard("Load", "50")
	store.jobs[10] = models.Job{ID: 10, JobTypeId: 1, LoadCount: 4}
	store.jobs[11] = models.Job{ID: 11, JobTypeId: 99, LoadCount: 4}
	e := newTestEngine(store)

	result, err := e.CalculateJobAmountById(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Amount.String() != "200" {
		t.Fatalf("expected 200, got %s", result.Amount.String())
	}

	// Deleted rate card prices at zero with a reason instead of failing.
	result, err = e.CalculateJobAmountById(context.Background(), 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.IsZero() || result.ZeroReason != ZeroReasonMissingRateCard {
		t.Fatalf("expected zero with %q, got %s %q", ZeroReasonMissingRateCard, result.Amount.String(), result.ZeroReason)
	}

	if _, err := e.CalculateJobAmountById(context.Background(), 404); !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCalculateJobAmountById_DefaultHourlyRate(t *testing.T) {
	store := newFakeStore()
	store.rateCards[1] = *rateCard("Hourly", "0")
	store.jobs[10] = models.Job{ID: 10, JobTypeId: 1, StartTime: timePtr(8, 0), EndTime: timePtr(12, 0)}
	e := newTestEngine(store)
	e.settings.DefaultHourlyRate = decimal.NewFromInt(60)

	result, err := e.CalculateJobAmountById(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Amount.String() != "240" {
		t.Fatalf("expected 240 from default hourly rate, got %s", result.Amount.String())
	}
}

func TestResolveRate(t *testing.T) {
	store := newFakeStore()
	store.rateCards[1] = *rateCard("Tonnage", "12.5")
	store.rateCards[2] = *rateCard("Hotshot", "275")
	e := newTestEngine(store)

	dispatchType, rate, err := e.ResolveRate(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispatchType != models.DispatchTypeTonnage || rate.String() != "12.5" {
		t.Fatalf("expected (Tonnage, 12.5), got (%s, %s)", dispatchType, rate.String())
	}

	// Unrecognized classifications resolve to flat-rate billing.
	dispatchType, rate, err = e.ResolveRate(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispatchType != models.DispatchTypeFixed || rate.String() != "275" {
		t.Fatalf("expected (Fixed, 275), got (%s, %s)", dispatchType, rate.String())
	}

	if _, _, err := e.ResolveRate(context.Background(), 404); !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
