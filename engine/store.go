package engine

import (
	"context"
	"errors"

	"bitbucket.org/roadstar/haulage_backend/models"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the record-store surface the engine needs. SetRelationshipAmount
// is the only mutation the engine ever issues.
type Store interface {
	GetInvoice(ctx context.Context, invoiceId int) (*models.Invoice, error)

	// GetJobWithRateCard returns the job and its rate card. A missing job is
	// ErrorRecordNotFound; a job whose rate card was deleted comes back with a
	// nil rate card and no error (such a job cannot be priced).
	GetJobWithRateCard(ctx context.Context, jobId int) (*models.Job, *models.JobType, error)

	// GetRateCard returns a job type's rate card; ErrorRecordNotFound when it
	// has been deleted.
	GetRateCard(ctx context.Context, jobTypeId int) (*models.JobType, error)

	GetDispatcherCommission(ctx context.Context, dispatcherId int) (decimal.Decimal, error)
	GetInvoiceJobs(ctx context.Context, invoiceId int) ([]models.InvoiceJob, error)
	GetRelationshipAmount(ctx context.Context, jobId int, invoiceId int) (decimal.Decimal, error)
	SetRelationshipAmount(ctx context.Context, jobId int, invoiceId int, amount decimal.Decimal) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetInvoice(ctx context.Context, invoiceId int) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.WithContext(ctx).Take(&invoice, invoiceId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *GormStore) GetJobWithRateCard(ctx context.Context, jobId int) (*models.Job, *models.JobType, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).Take(&job, jobId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.ErrorRecordNotFound
		}
		return nil, nil, err
	}

	var rateCard models.JobType
	if err := s.db.WithContext(ctx).Take(&rateCard, job.JobTypeId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &job, nil, nil
		}
		return nil, nil, err
	}
	return &job, &rateCard, nil
}

func (s *GormStore) GetRateCard(ctx context.Context, jobTypeId int) (*models.JobType, error) {
	var rateCard models.JobType
	if err := s.db.WithContext(ctx).Take(&rateCard, jobTypeId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &rateCard, nil
}

func (s *GormStore) GetDispatcherCommission(ctx context.Context, dispatcherId int) (decimal.Decimal, error) {
	var dispatcher models.Dispatcher
	if err := s.db.WithContext(ctx).Take(&dispatcher, dispatcherId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, utils.ErrorRecordNotFound
		}
		return decimal.Zero, err
	}
	return dispatcher.CommissionPercent, nil
}

func (s *GormStore) GetInvoiceJobs(ctx context.Context, invoiceId int) ([]models.InvoiceJob, error) {
	var invoiceJobs []models.InvoiceJob
	if err := s.db.WithContext(ctx).Where("invoice_id = ?", invoiceId).Find(&invoiceJobs).Error; err != nil {
		return nil, err
	}
	return invoiceJobs, nil
}

func (s *GormStore) GetRelationshipAmount(ctx context.Context, jobId int, invoiceId int) (decimal.Decimal, error) {
	var association models.InvoiceJob
	err := s.db.WithContext(ctx).
		Where("invoice_id = ? AND job_id = ?", invoiceId, jobId).
		Take(&association).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, utils.ErrorNotAssociated
		}
		return decimal.Zero, err
	}
	return association.RelationshipAmount, nil
}

// SetRelationshipAmount overwrites the cached association amount. Writes for
// one (job, invoice) pair are serialized via a MySQL advisory lock; advisory
// locks are connection-scoped, so the lock and the update share a transaction.
func (s *GormStore) SetRelationshipAmount(ctx context.Context, jobId int, invoiceId int, amount decimal.Decimal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := acquireReconcileLock(tx, invoiceId, jobId); err != nil {
			return err
		}
		defer releaseReconcileLock(tx, invoiceId, jobId)

		result := tx.Model(&models.InvoiceJob{}).
			Where("invoice_id = ? AND job_id = ?", invoiceId, jobId).
			Update("relationship_amount", amount)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.InvoiceJob{}).
				Where("invoice_id = ? AND job_id = ?", invoiceId, jobId).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return utils.ErrorNotAssociated
			}
		}
		return nil
	})
}
