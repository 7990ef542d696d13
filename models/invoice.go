package models

import (
	"context"
	"time"

	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            int           `gorm:"primary_key" json:"id"`
	InvoiceNumber string        `gorm:"size:255;not null" json:"invoice_number"`
	DispatcherId  int           `gorm:"index;default:null" json:"dispatcher_id"`
	InvoiceDate   time.Time     `gorm:"not null" json:"invoice_date" binding:"required"`
	Notes         string        `gorm:"type:text;default:null" json:"notes"`
	CurrentStatus InvoiceStatus `gorm:"type:enum('Draft','Confirmed','Paid','Void');not null;default:Draft" json:"current_status"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// InvoiceJob is the job-invoice association. RelationshipAmount is the amount
// cached at invoicing time; it goes stale when the job or its rate card is
// edited afterwards. Only the reconciler may overwrite it.
type InvoiceJob struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	InvoiceId          int             `gorm:"uniqueIndex:idx_invoice_job;not null" json:"invoice_id"`
	JobId              int             `gorm:"uniqueIndex:idx_invoice_job;not null" json:"job_id"`
	RelationshipAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"relationship_amount"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	InvoiceNumber string    `json:"invoice_number" binding:"required" validate:"required"`
	DispatcherId  int       `json:"dispatcher_id" binding:"required" validate:"required"`
	InvoiceDate   time.Time `json:"invoice_date" binding:"required" validate:"required"`
	Notes         string    `json:"notes"`
}

func (i Invoice) GetId() int {
	return i.ID
}

func (i Invoice) GetDefault(id int) any {
	return Invoice{ID: id}
}

func (i Invoice) GetCursor() string {
	return i.CreatedAt.Format(time.RFC3339Nano)
}

func (ij InvoiceJob) GetReferenceId() int {
	return ij.InvoiceId
}

func CreateInvoice(ctx context.Context, db *gorm.DB, input NewInvoice) (*Invoice, error) {
	if err := utils.ValidateResourceId[Dispatcher](ctx, db, input.DispatcherId); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Invoice](ctx, db, "invoice_number", input.InvoiceNumber, 0); err != nil {
		return nil, err
	}
	invoice := Invoice{
		InvoiceNumber: input.InvoiceNumber,
		DispatcherId:  input.DispatcherId,
		InvoiceDate:   input.InvoiceDate,
		Notes:         input.Notes,
		CurrentStatus: InvoiceStatusDraft,
	}
	if err := db.WithContext(ctx).Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// AttachJob links a job to an invoice, caching the supplied amount on the
// association. The cache is written exactly once here; afterwards only the
// reconciler may touch it.
func AttachJob(ctx context.Context, db *gorm.DB, invoiceId int, jobId int, amount decimal.Decimal) (*InvoiceJob, error) {
	if err := utils.ValidateResourceId[Invoice](ctx, db, invoiceId); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Job](ctx, db, jobId); err != nil {
		return nil, err
	}

	association := InvoiceJob{
		InvoiceId:          invoiceId,
		JobId:              jobId,
		RelationshipAmount: amount,
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&association).Error; err != nil {
			return err
		}
		return tx.Model(&Job{}).Where("id = ?", jobId).
			Updates(map[string]interface{}{
				"current_status": JobStatusInvoiced,
				"cached_amount":  amount,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &association, nil
}

type InvoiceFilter struct {
	Status       InvoiceStatus
	DispatcherId int
	Limit        int
	After        *string
}

func PaginateInvoices(ctx context.Context, db *gorm.DB, filter InvoiceFilter) ([]Invoice, *PageInfo, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = DefaultPageSize
	}

	dbCtx := db.WithContext(ctx).Model(&Invoice{})
	if filter.Status != "" {
		dbCtx = dbCtx.Where("current_status = ?", filter.Status)
	}
	if filter.DispatcherId > 0 {
		dbCtx = dbCtx.Where("dispatcher_id = ?", filter.DispatcherId)
	}
	if createdAt, id := DecodeCompositeCursor(filter.After); createdAt != "" {
		dbCtx = dbCtx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}

	var invoices []Invoice
	if err := dbCtx.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&invoices).Error; err != nil {
		return nil, nil, err
	}

	hasNext := len(invoices) > limit
	if hasNext {
		invoices = invoices[:limit]
	}
	pageInfo := &PageInfo{HasNextPage: &hasNext}
	if len(invoices) > 0 {
		last := invoices[len(invoices)-1]
		pageInfo.EndCursor = EncodeCompositeCursor(last.GetCursor(), last.ID)
	}
	return invoices, pageInfo, nil
}
