package models

import (
	"context"
	"time"

	"bitbucket.org/roadstar/haulage_backend/utils"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:255;uniqueIndex;not null" json:"username" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('Admin','Dispatcher','Viewer');not null;default:Viewer" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func CreateUser(ctx context.Context, db *gorm.DB, username string, password string, role UserRole) (*User, error) {
	if err := utils.ValidateUnique[User](ctx, db, "username", username, 0); err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := User{
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
