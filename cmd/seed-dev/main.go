// seed-dev populates a development database with the standard rate cards, a
// dispatcher, an admin user and a small invoiced workload. Rerunning against a
// seeded database fails on the unique checks, by intent.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/engine"
	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/shopspring/decimal"
)

const (
	adminUsername = "roadstarAdmin"
	adminPassword = "R0@dst@rAdmin"
)

func must[T any](v *T, err error) *T {
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	return v
}

func timeOfDay(hour, minute int) *models.TimeOfDay {
	t := models.NewTimeOfDay(hour, minute)
	return &t
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	must(models.CreateUser(ctx, db, adminUsername, adminPassword, models.UserRoleAdmin))

	hourly := must(models.CreateJobType(ctx, db, models.NewJobType{
		Name: "Hourly Haul", DispatchType: models.DispatchTypeHourly, Rate: decimal.NewFromInt(85),
	}))
	load := must(models.CreateJobType(ctx, db, models.NewJobType{
		Name: "Per Load", DispatchType: models.DispatchTypeLoad, Rate: decimal.NewFromInt(50),
	}))
	tonnage := must(models.CreateJobType(ctx, db, models.NewJobType{
		Name: "Aggregate Tonnage", DispatchType: models.DispatchTypeTonnage, Rate: decimal.RequireFromString("12.5"),
	}))
	must(models.CreateJobType(ctx, db, models.NewJobType{
		Name: "Flat Move", DispatchType: models.DispatchTypeFixed, Rate: decimal.NewFromInt(500),
	}))

	dispatcher := must(models.CreateDispatcher(ctx, db, models.NewDispatcher{
		Name:              "Northbound Logistics",
		Phone:             "416-555-0199",
		Email:             "dispatch@northbound.example",
		CommissionPercent: decimal.NewFromInt(10),
	}))

	jobDate := time.Now().AddDate(0, 0, -7)
	nightShift := must(models.CreateJob(ctx, db, models.NewJob{
		JobNumber:    "JOB-1001",
		JobTypeId:    hourly.ID,
		DispatcherId: dispatcher.ID,
		DriverName:   "M. Okafor",
		JobDate:      jobDate,
		StartTime:    timeOfDay(22, 0),
		EndTime:      timeOfDay(2, 0),
	}))
	gravelRuns := must(models.CreateJob(ctx, db, models.NewJob{
		JobNumber:    "JOB-1002",
		JobTypeId:    load.ID,
		DispatcherId: dispatcher.ID,
		DriverName:   "S. Tremblay",
		JobDate:      jobDate,
		LoadCount:    3,
	}))
	aggregate := must(models.CreateJob(ctx, db, models.NewJob{
		JobNumber:    "JOB-1003",
		JobTypeId:    tonnage.ID,
		DispatcherId: dispatcher.ID,
		DriverName:   "S. Tremblay",
		JobDate:      jobDate,
		Weight:       `[10.5, 9.5]`,
	}))

	invoice := must(models.CreateInvoice(ctx, db, models.NewInvoice{
		InvoiceNumber: "INV-2026-001",
		DispatcherId:  dispatcher.ID,
		InvoiceDate:   time.Now(),
	}))

	eng := engine.New(engine.NewGormStore(db), config.GetEngineSettings(), config.GetLogger(), nil)
	for _, job := range []*models.Job{nightShift, gravelRuns, aggregate} {
		amount, err := eng.CalculateJobAmountById(ctx, job.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed failed pricing job %s: %v\n", job.JobNumber, err)
			os.Exit(1)
		}
		must(models.AttachJob(ctx, db, invoice.ID, job.ID, amount.Amount))
	}

	calc, err := eng.CalculateInvoiceTotals(ctx, invoice.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed computing totals: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded invoice %s: subtotal=%s commission=%s tax=%s total=%s\n",
		invoice.InvoiceNumber,
		calc.SubTotal.StringFixed(2), calc.Commission.StringFixed(2),
		calc.Tax.StringFixed(2), calc.Total.StringFixed(2))
	fmt.Printf("admin user: %s\n", adminUsername)
}
