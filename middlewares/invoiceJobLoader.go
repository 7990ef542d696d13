package middlewares

import (
	"context"

	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type invoiceJobReader struct {
	db *gorm.DB
}

// getInvoiceJobs batches by invoice id; each key resolves to every job
// association on that invoice.
func (r *invoiceJobReader) getInvoiceJobs(ctx context.Context, invoiceIds []int) []*dataloader.Result[[]*models.InvoiceJob] {
	var results []models.InvoiceJob
	err := r.db.WithContext(ctx).Where("invoice_id IN ?", invoiceIds).Find(&results).Error
	if err != nil {
		return handleError[[]*models.InvoiceJob](len(invoiceIds), err)
	}

	return generateLoaderArrayResults(results, invoiceIds)
}

func GetInvoiceJobs(ctx context.Context, invoiceId int) ([]*models.InvoiceJob, error) {
	loaders := For(ctx)
	return loaders.invoiceJobLoader.Load(ctx, invoiceId)()
}
