package engine

import (
	"context"
	"io"
	"sync"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/models"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fakeStore is an in-memory Store for engine tests. It counts writes so
// idempotence can be asserted directly.
type fakeStore struct {
	mu          sync.Mutex
	invoices    map[int]models.Invoice
	jobs        map[int]models.Job
	rateCards   map[int]models.JobType
	dispatchers map[int]decimal.Decimal
	invoiceJobs map[int][]models.InvoiceJob
	amounts     map[[2]int]decimal.Decimal
	writes      int

	// onRelationshipRead, when set, observes each per-job validation as it
	// starts. Lets tests trigger cancellation mid-pass.
	onRelationshipRead func(jobId int)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices:    map[int]models.Invoice{},
		jobs:        map[int]models.Job{},
		rateCards:   map[int]models.JobType{},
		dispatchers: map[int]decimal.Decimal{},
		invoiceJobs: map[int][]models.InvoiceJob{},
		amounts:     map[[2]int]decimal.Decimal{},
	}
}

func (s *fakeStore) attach(invoiceId, jobId int, amount decimal.Decimal) {
	s.invoiceJobs[invoiceId] = append(s.invoiceJobs[invoiceId], models.InvoiceJob{
		InvoiceId:          invoiceId,
		JobId:              jobId,
		RelationshipAmount: amount,
	})
	s.amounts[[2]int{jobId, invoiceId}] = amount
}

func (s *fakeStore) GetInvoice(ctx context.Context, invoiceId int) (*models.Invoice, error) {
	invoice, ok := s.invoices[invoiceId]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &invoice, nil
}

func (s *fakeStore) GetJobWithRateCard(ctx context.Context, jobId int) (*models.Job, *models.JobType, error) {
	job, ok := s.jobs[jobId]
	if !ok {
		return nil, nil, utils.ErrorRecordNotFound
	}
	rateCard, ok := s.rateCards[job.JobTypeId]
	if !ok {
		return &job, nil, nil
	}
	return &job, &rateCard, nil
}

func (s *fakeStore) GetRateCard(ctx context.Context, jobTypeId int) (*models.JobType, error) {
	rateCard, ok := s.rateCards[jobTypeId]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &rateCard, nil
}

func (s *fakeStore) GetDispatcherCommission(ctx context.Context, dispatcherId int) (decimal.Decimal, error) {
	pct, ok := s.dispatchers[dispatcherId]
	if !ok {
		return decimal.Zero, utils.ErrorRecordNotFound
	}
	return pct, nil
}

func (s *fakeStore) GetInvoiceJobs(ctx context.Context, invoiceId int) ([]models.InvoiceJob, error) {
	return s.invoiceJobs[invoiceId], nil
}

func (s *fakeStore) GetRelationshipAmount(ctx context.Context, jobId int, invoiceId int) (decimal.Decimal, error) {
	if s.onRelationshipRead != nil {
		s.onRelationshipRead(jobId)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	amount, ok := s.amounts[[2]int{jobId, invoiceId}]
	if !ok {
		return decimal.Zero, utils.ErrorNotAssociated
	}
	return amount, nil
}

func (s *fakeStore) SetRelationshipAmount(ctx context.Context, jobId int, invoiceId int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.amounts[[2]int{jobId, invoiceId}]; !ok {
		return utils.ErrorNotAssociated
	}
	s.amounts[[2]int{jobId, invoiceId}] = amount
	s.writes++
	return nil
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func newTestEngine(store Store) *Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	settings := config.EngineSettings{
		TaxRatePercent:   decimal.NewFromInt(13),
		AmountTolerance:  decimal.NewFromFloat(0.01),
		ReconcileWorkers: 4,
	}
	return New(store, settings, logger, nil)
}
