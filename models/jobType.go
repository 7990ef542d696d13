package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JobType is the rate card: the per-unit price for a job classification.
// Rate is per hour, per load, per weight unit, or flat depending on
// DispatchType. The calculator trusts the rate card's dispatch type.
type JobType struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name" binding:"required"`
	DispatchType DispatchType    `gorm:"type:enum('Hourly','Load','Tonnage','Fixed');not null" json:"dispatch_type" binding:"required"`
	Rate         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rate"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewJobType struct {
	Name         string          `json:"name" binding:"required" validate:"required"`
	DispatchType DispatchType    `json:"dispatch_type" binding:"required" validate:"required"`
	Rate         decimal.Decimal `json:"rate"`
}

func (jt JobType) GetId() int {
	return jt.ID
}

func (jt JobType) GetDefault(id int) any {
	return JobType{ID: id}
}

func CreateJobType(ctx context.Context, db *gorm.DB, input NewJobType) (*JobType, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	dispatchType, ok := ParseDispatchType(string(input.DispatchType))
	if !ok {
		return nil, errors.New("dispatch type must be Hourly, Load, Tonnage or Fixed")
	}
	if input.Rate.IsNegative() {
		return nil, errors.New("rate must not be negative")
	}
	if err := utils.ValidateUnique[JobType](ctx, db, "name", input.Name, 0); err != nil {
		return nil, err
	}
	jobType := JobType{
		Name:         input.Name,
		DispatchType: dispatchType,
		Rate:         input.Rate,
	}
	if err := db.WithContext(ctx).Create(&jobType).Error; err != nil {
		return nil, err
	}
	return &jobType, nil
}
