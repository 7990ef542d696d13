package models

import (
	"context"
	"time"

	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Job struct {
	ID           int        `gorm:"primary_key" json:"id"`
	JobNumber    string     `gorm:"size:255;not null" json:"job_number"`
	JobTypeId    int        `gorm:"index;not null" json:"job_type_id" binding:"required"`
	DispatcherId int        `gorm:"index;default:null" json:"dispatcher_id"`
	DriverName   string     `gorm:"size:255;default:null" json:"driver_name"`
	JobDate      time.Time  `gorm:"not null" json:"job_date" binding:"required"`
	StartTime    *TimeOfDay `gorm:"type:time;default:null" json:"start_time"`
	EndTime      *TimeOfDay `gorm:"type:time;default:null" json:"end_time"`
	LoadCount    int        `gorm:"default:0" json:"load_count"`

	// Weight survives in legacy encodings: a bare number, a space-separated
	// string, or a JSON-encoded array. The engine normalizes it on read.
	Weight string `gorm:"size:512;default:null" json:"weight"`

	// CachedAmount is the last amount computed for this job, authoritative only
	// until the next reconciliation pass.
	CachedAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cached_amount"`

	Notes         string    `gorm:"type:text;default:null" json:"notes"`
	CurrentStatus JobStatus `gorm:"type:enum('Pending','Dispatched','Completed','Invoiced','Cancelled');not null;default:Pending" json:"current_status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewJob struct {
	JobNumber    string     `json:"job_number" binding:"required" validate:"required"`
	JobTypeId    int        `json:"job_type_id" binding:"required" validate:"required"`
	DispatcherId int        `json:"dispatcher_id"`
	DriverName   string     `json:"driver_name"`
	JobDate      time.Time  `json:"job_date" binding:"required" validate:"required"`
	StartTime    *TimeOfDay `json:"start_time"`
	EndTime      *TimeOfDay `json:"end_time"`
	LoadCount    int        `json:"load_count" validate:"gte=0"`
	Weight       string     `json:"weight"`
	Notes        string     `json:"notes"`
}

func (j Job) GetId() int {
	return j.ID
}

func (j Job) GetDefault(id int) any {
	return Job{ID: id}
}

func (j Job) GetCursor() string {
	return j.CreatedAt.Format(time.RFC3339Nano)
}

func (input NewJob) Validate(ctx context.Context, db *gorm.DB) error {
	if err := utils.ValidateResourceId[JobType](ctx, db, input.JobTypeId); err != nil {
		return err
	}
	if input.DispatcherId > 0 {
		if err := utils.ValidateResourceId[Dispatcher](ctx, db, input.DispatcherId); err != nil {
			return err
		}
	}
	return utils.ValidateUnique[Job](ctx, db, "job_number", input.JobNumber, 0)
}

func CreateJob(ctx context.Context, db *gorm.DB, input NewJob) (*Job, error) {
	if err := input.Validate(ctx, db); err != nil {
		return nil, err
	}
	job := Job{
		JobNumber:     input.JobNumber,
		JobTypeId:     input.JobTypeId,
		DispatcherId:  input.DispatcherId,
		DriverName:    input.DriverName,
		JobDate:       input.JobDate,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		LoadCount:     input.LoadCount,
		Weight:        input.Weight,
		Notes:         input.Notes,
		CurrentStatus: JobStatusPending,
	}
	if err := db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

type JobFilter struct {
	Status    JobStatus
	JobTypeId int
	Limit     int
	After     *string
}

// PaginateJobs lists jobs newest-first using a (created_at, id) composite
// cursor so pages stay stable while jobs are being created.
func PaginateJobs(ctx context.Context, db *gorm.DB, filter JobFilter) ([]Job, *PageInfo, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = DefaultPageSize
	}

	dbCtx := db.WithContext(ctx).Model(&Job{})
	if filter.Status != "" {
		dbCtx = dbCtx.Where("current_status = ?", filter.Status)
	}
	if filter.JobTypeId > 0 {
		dbCtx = dbCtx.Where("job_type_id = ?", filter.JobTypeId)
	}
	if createdAt, id := DecodeCompositeCursor(filter.After); createdAt != "" {
		dbCtx = dbCtx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}

	var jobs []Job
	if err := dbCtx.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&jobs).Error; err != nil {
		return nil, nil, err
	}

	hasNext := len(jobs) > limit
	if hasNext {
		jobs = jobs[:limit]
	}
	pageInfo := &PageInfo{HasNextPage: &hasNext}
	if len(jobs) > 0 {
		last := jobs[len(jobs)-1]
		pageInfo.EndCursor = EncodeCompositeCursor(last.GetCursor(), last.ID)
	}
	return jobs, pageInfo, nil
}
