package utils

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// ValidateStruct runs go-playground struct validation on top of gin's binding
// tags, for inputs that arrive outside of request binding (seeders, CLIs).
func ValidateStruct(input interface{}) error {
	return validate.Struct(input)
}

// check if id exists, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, db *gorm.DB, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, db, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

func ValidateUnique[T any](ctx context.Context, db *gorm.DB, column string, value interface{}, exceptId int) error {
	var count int64
	var err error
	if exceptId == 0 {
		count, err = ResourceCountWhere[T](ctx, db, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, db, column+" = ? AND NOT id = ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// count records matching $condition
func ResourceCountWhere[T any](ctx context.Context, db *gorm.DB, condition string, value ...interface{}) (int64, error) {
	var model T

	var count int64
	if err := db.WithContext(ctx).Model(&model).Where(condition, value...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
