package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/engine"
	"bitbucket.org/roadstar/haulage_backend/middlewares"
	"bitbucket.org/roadstar/haulage_backend/models"
	"bitbucket.org/roadstar/haulage_backend/reports"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewInvoice
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		invoice, err := models.CreateInvoice(c.Request.Context(), config.GetDB(), input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, invoice)
	}
}

func GetInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceId, ok := pathId(c, "id")
		if !ok {
			return
		}
		invoice, err := middlewares.GetInvoice(c.Request.Context(), invoiceId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if invoice.InvoiceNumber == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}

		invoiceJobs, err := middlewares.GetInvoiceJobs(c.Request.Context(), invoiceId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		dispatcher, err := middlewares.GetDispatcher(c.Request.Context(), invoice.DispatcherId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"invoice":    invoice,
			"dispatcher": dispatcher,
			"jobs":       invoiceJobs,
		})
	}
}

func ListInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.InvoiceFilter{
			Status:       models.InvoiceStatus(c.Query("status")),
			DispatcherId: queryInt(c.Query("dispatcher_id"), 0),
			Limit:        queryInt(c.Query("limit"), 0),
		}
		if after := c.Query("after"); after != "" {
			filter.After = &after
		}
		invoices, pageInfo, err := models.PaginateInvoices(c.Request.Context(), config.GetDB(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"invoices":  invoices,
			"page_info": pageInfo,
		})
	}
}

// InvoiceCalculationsHandler recomputes the invoice's money pipeline from
// current job data. Cached relationship amounts never feed these figures.
func InvoiceCalculationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceId, ok := pathId(c, "id")
		if !ok {
			return
		}
		calc, err := newEngine().CalculateInvoiceTotals(c.Request.Context(), invoiceId)
		if err != nil {
			if engine.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"invoice_id":   invoiceId,
			"calculations": calc,
		})
	}
}

type attachJobRequest struct {
	JobId int `json:"job_id" binding:"required"`
}

// AttachJobHandler links a job to an invoice, caching the freshly calculated
// amount on the association.
func AttachJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		invoiceId, ok := pathId(c, "id")
		if !ok {
			return
		}
		var req attachJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
			return
		}

		amount, err := newEngine().CalculateJobAmountById(c.Request.Context(), req.JobId)
		if err != nil {
			if engine.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		association, err := models.AttachJob(c.Request.Context(), config.GetDB(), invoiceId, req.JobId, amount.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"association": association,
			"zero_reason": amount.ZeroReason,
		})
	}
}

// ValidateInvoiceJobHandler reconciles one job's cached amount on an invoice.
func ValidateInvoiceJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		invoiceId, ok := pathId(c, "id")
		if !ok {
			return
		}
		jobId, ok := pathId(c, "jobId")
		if !ok {
			return
		}
		result, err := newEngine().ValidateAndFixJobAmount(c.Request.Context(), jobId, invoiceId)
		if err != nil {
			if errors.Is(err, utils.ErrorNotAssociated) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if engine.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"correlation_id": correlationId,
			"result":         result,
		})
	}
}

// ValidateInvoiceHandler reconciles every job attached to an invoice.
func ValidateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		invoiceId, ok := pathId(c, "id")
		if !ok {
			return
		}
		validation, err := newEngine().ValidateInvoiceJobAmounts(c.Request.Context(), invoiceId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"correlation_id": correlationId,
			"validation":     validation,
		})
	}
}

// ExportInvoiceHandler streams the invoice workbook.
func ExportInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		invoiceId, ok := pathId(c, "id")
		if !ok {
			return
		}
		workbook, filename, err := reports.BuildInvoiceWorkbook(c.Request.Context(), config.GetDB(), newEngine(), invoiceId)
		if err != nil {
			if engine.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		if err := workbook.Write(c.Writer); err != nil {
			config.LogError(config.GetLogger(), "invoices.go", "ExportInvoiceHandler", "writing workbook", invoiceId, err)
		}
	}
}
