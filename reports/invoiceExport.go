package reports

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/roadstar/haulage_backend/engine"
	"bitbucket.org/roadstar/haulage_backend/models"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const sheetName = "Sheet1"

// BuildInvoiceWorkbook renders an invoice to a spreadsheet: one row per
// attached job with its cached and freshly calculated amounts, followed by the
// recomputed totals block. The returned filename carries the invoice number.
func BuildInvoiceWorkbook(ctx context.Context, db *gorm.DB, eng *engine.Engine, invoiceId int) (*excelize.File, string, error) {
	var invoice models.Invoice
	if err := db.WithContext(ctx).Take(&invoice, invoiceId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", utils.ErrorRecordNotFound
		}
		return nil, "", err
	}

	var invoiceJobs []models.InvoiceJob
	if err := db.WithContext(ctx).Where("invoice_id = ?", invoiceId).Find(&invoiceJobs).Error; err != nil {
		return nil, "", err
	}

	calc, err := eng.CalculateInvoiceTotals(ctx, invoiceId)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, "", err
	}

	f.SetCellValue(sheetName, "A1", "Invoice")
	f.SetCellValue(sheetName, "B1", invoice.InvoiceNumber)
	f.SetCellValue(sheetName, "A2", "Date")
	f.SetCellValue(sheetName, "B2", invoice.InvoiceDate.Format("2006-01-02"))
	f.SetCellValue(sheetName, "A3", "Status")
	f.SetCellValue(sheetName, "B3", string(invoice.CurrentStatus))

	// Job rows
	f.SetCellValue(sheetName, "A5", "JobNumber")
	f.SetCellValue(sheetName, "B5", "Driver")
	f.SetCellValue(sheetName, "C5", "JobDate")
	f.SetCellValue(sheetName, "D5", "CachedAmount")
	f.SetCellValue(sheetName, "E5", "CalculatedAmount")
	f.SetCellValue(sheetName, "F5", "ZeroReason")

	row := 6
	for _, invoiceJob := range invoiceJobs {
		var job models.Job
		if err := db.WithContext(ctx).Take(&job, invoiceJob.JobId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				f.SetCellValue(sheetName, "A"+fmt.Sprint(row), fmt.Sprintf("job %d (deleted)", invoiceJob.JobId))
				f.SetCellValue(sheetName, "D"+fmt.Sprint(row), invoiceJob.RelationshipAmount.StringFixed(2))
				row++
				continue
			}
			return nil, "", err
		}

		amount, err := eng.CalculateJobAmountById(ctx, invoiceJob.JobId)
		if err != nil {
			return nil, "", err
		}
		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), job.JobNumber)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), job.DriverName)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(row), job.JobDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, "D"+fmt.Sprint(row), invoiceJob.RelationshipAmount.StringFixed(2))
		f.SetCellValue(sheetName, "E"+fmt.Sprint(row), amount.Amount.StringFixed(2))
		f.SetCellValue(sheetName, "F"+fmt.Sprint(row), string(amount.ZeroReason))
		row++
	}

	// Totals block
	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "SubTotal")
	f.SetCellValue(sheetName, "B"+fmt.Sprint(row), calc.SubTotal.StringFixed(2))
	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Commission")
	f.SetCellValue(sheetName, "B"+fmt.Sprint(row), calc.Commission.StringFixed(2))
	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Tax")
	f.SetCellValue(sheetName, "B"+fmt.Sprint(row), calc.Tax.StringFixed(2))
	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Total")
	f.SetCellValue(sheetName, "B"+fmt.Sprint(row), calc.Total.StringFixed(2))
	if calc.MissingDispatcher {
		row++
		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Warning")
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), "dispatcher missing; totals are zero")
	}

	filename := fmt.Sprintf("invoice-%s.xlsx", invoice.InvoiceNumber)
	return f, filename, nil
}
