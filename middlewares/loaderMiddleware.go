package middlewares

import (
	"context"
	"reflect"
	"time"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	jobLoader        *dataloader.Loader[int, *models.Job]
	jobTypeLoader    *dataloader.Loader[int, *models.JobType]
	dispatcherLoader *dataloader.Loader[int, *models.Dispatcher]
	invoiceLoader    *dataloader.Loader[int, *models.Invoice]
	invoiceJobLoader *dataloader.Loader[int, []*models.InvoiceJob]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	jobReader := &jobReader{db: conn}
	jobTypeReader := &jobTypeReader{db: conn}
	dispatcherReader := &dispatcherReader{db: conn}
	invoiceReader := &invoiceReader{db: conn}
	invoiceJobReader := &invoiceJobReader{db: conn}

	return &Loaders{
		jobLoader:        dataloader.NewBatchedLoader(jobReader.getJobs, dataloader.WithWait[int, *models.Job](time.Millisecond)),
		jobTypeLoader:    dataloader.NewBatchedLoader(jobTypeReader.getJobTypes, dataloader.WithWait[int, *models.JobType](time.Millisecond)),
		dispatcherLoader: dataloader.NewBatchedLoader(dispatcherReader.getDispatchers, dataloader.WithWait[int, *models.Dispatcher](time.Millisecond)),
		invoiceLoader:    dataloader.NewBatchedLoader(invoiceReader.getInvoices, dataloader.WithWait[int, *models.Invoice](time.Millisecond)),
		invoiceJobLoader: dataloader.NewBatchedLoader(invoiceJobReader.getInvoiceJobs, dataloader.WithWait[int, []*models.InvoiceJob](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results
// (T must be a struct)
func generateLoaderResults[T models.Data](results []T, ids []int) []*dataloader.Result[*T] {
	resultMap := make(map[int]T)
	var resultZero T
	resultMap[0] = resultZero.GetDefault(0).(T)
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data := resultMap[id]
		if reflect.ValueOf(data).IsZero() {
			data = data.GetDefault(id).(T)
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}

// T must be struct
// each id has many related results
func generateLoaderArrayResults[T models.RelatedData](results []T, referenceIds []int) (loaderResults []*dataloader.Result[[]*T]) {
	resultMap := make(map[int][]*T)
	for _, result := range results {
		// creating a new variable every turn, to avoid pointing to the adddress of result
		copy := result
		resultMap[result.GetReferenceId()] = append(resultMap[result.GetReferenceId()], &copy)
	}
	for _, id := range referenceIds {
		resultArray := resultMap[id]
		loaderResults = append(loaderResults, &dataloader.Result[[]*T]{Data: resultArray})
	}
	return loaderResults
}
