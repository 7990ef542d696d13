package middlewares

import (
	"context"

	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type dispatcherReader struct {
	db *gorm.DB
}

func (r *dispatcherReader) getDispatchers(ctx context.Context, ids []int) []*dataloader.Result[*models.Dispatcher] {
	var results []models.Dispatcher
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Dispatcher](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetDispatcher(ctx context.Context, id int) (*models.Dispatcher, error) {
	loaders := For(ctx)
	return loaders.dispatcherLoader.Load(ctx, id)()
}
