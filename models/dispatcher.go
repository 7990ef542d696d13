package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm"
)

// Dispatcher brokers jobs to the carrier and takes a commission cut of each
// invoice's subtotal.
type Dispatcher struct {
	ID                int             `gorm:"primary_key" json:"id"`
	Name              string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Phone             string          `gorm:"size:64;default:null" json:"phone"`
	Email             string          `gorm:"size:255;default:null" json:"email"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"commission_percent"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDispatcher struct {
	Name              string          `json:"name" binding:"required" validate:"required"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email" validate:"omitempty,email"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
}

func (d Dispatcher) GetId() int {
	return d.ID
}

func (d Dispatcher) GetDefault(id int) any {
	return Dispatcher{ID: id}
}

func (input NewDispatcher) validate() (string, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return "", err
	}
	hundred := decimal.NewFromInt(100)
	if input.CommissionPercent.IsNegative() || input.CommissionPercent.GreaterThan(hundred) {
		return "", errors.New("commission percent must be between 0 and 100")
	}

	phone := input.Phone
	if phone != "" {
		num, err := libphonenumber.Parse(phone, "CA")
		if err != nil {
			return "", errors.New("invalid phone number")
		}
		phone = libphonenumber.Format(num, libphonenumber.E164)
	}
	return phone, nil
}

func CreateDispatcher(ctx context.Context, db *gorm.DB, input NewDispatcher) (*Dispatcher, error) {
	phone, err := input.validate()
	if err != nil {
		return nil, err
	}
	dispatcher := Dispatcher{
		Name:              input.Name,
		Phone:             phone,
		Email:             input.Email,
		CommissionPercent: input.CommissionPercent,
	}
	if err := db.WithContext(ctx).Create(&dispatcher).Error; err != nil {
		return nil, err
	}
	return &dispatcher, nil
}
