package models

import (
	"bitbucket.org/roadstar/haulage_backend/config"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&Dispatcher{},
		&JobType{},
		&Job{},
		&Invoice{},
		&InvoiceJob{},
	)
	if err != nil {
		config.GetLogger().Panic(err.Error())
	}
}
