// reconcile-invoices validates and repairs the cached job amounts on every
// non-void invoice. Safe to rerun: associations already within tolerance are
// left untouched.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/reconcile-invoices
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/engine"
	"bitbucket.org/roadstar/haulage_backend/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	// Redis is optional here; the store's advisory locks serialize writes.
	eng := engine.New(engine.NewGormStore(db), config.GetEngineSettings(), config.GetLogger(), nil)

	var invoices []models.Invoice
	if err := db.WithContext(ctx).
		Where("current_status <> ?", models.InvoiceStatusVoid).
		Order("id").
		Find(&invoices).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to list invoices: %v\n", err)
		os.Exit(1)
	}

	var totalJobs, validJobs, fixedJobs, failedJobs int
	for _, invoice := range invoices {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "interrupted; reporting progress so far")
			break
		}
		validation, err := eng.ValidateInvoiceJobAmounts(ctx, invoice.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invoice %d (%s): %v\n", invoice.ID, invoice.InvoiceNumber, err)
			continue
		}
		totalJobs += validation.TotalJobs
		validJobs += validation.ValidJobs
		fixedJobs += validation.FixedJobs
		failedJobs += len(validation.Errors)
		for _, msg := range validation.Errors {
			fmt.Fprintf(os.Stderr, "invoice %d (%s): %s\n", invoice.ID, invoice.InvoiceNumber, msg)
		}
		if validation.FixedJobs > 0 {
			fmt.Printf("invoice %d (%s): fixed %d of %d jobs\n",
				invoice.ID, invoice.InvoiceNumber, validation.FixedJobs, validation.TotalJobs)
		}
	}

	fmt.Printf("done: invoices=%d jobs=%d valid=%d fixed=%d failed=%d\n",
		len(invoices), totalJobs, validJobs, fixedJobs, failedJobs)
	if failedJobs > 0 {
		os.Exit(2)
	}
}
