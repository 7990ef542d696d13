package middlewares

import (
	"context"

	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type jobTypeReader struct {
	db *gorm.DB
}

func (r *jobTypeReader) getJobTypes(ctx context.Context, ids []int) []*dataloader.Result[*models.JobType] {
	var results []models.JobType
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.JobType](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetJobType(ctx context.Context, id int) (*models.JobType, error) {
	loaders := For(ctx)
	return loaders.jobTypeLoader.Load(ctx, id)()
}
