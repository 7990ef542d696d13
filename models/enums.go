package models

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// DispatchType is the billing method of a job. The applicable type is always
// read off the rate card (JobType), never off the job record itself.
type DispatchType string

const (
	DispatchTypeHourly  DispatchType = "Hourly"
	DispatchTypeLoad    DispatchType = "Load"
	DispatchTypeTonnage DispatchType = "Tonnage"
	DispatchTypeFixed   DispatchType = "Fixed"
)

// ParseDispatchType matches case-insensitively. ok is false for unrecognized
// classifications; callers fall back to flat-rate billing rather than failing.
func ParseDispatchType(s string) (DispatchType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hourly":
		return DispatchTypeHourly, true
	case "load":
		return DispatchTypeLoad, true
	case "tonnage":
		return DispatchTypeTonnage, true
	case "fixed":
		return DispatchTypeFixed, true
	}
	return DispatchType(s), false
}

func (t DispatchType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *DispatchType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = DispatchType(v)
	case []byte:
		*t = DispatchType(v)
	default:
		return errors.New("dispatch type must be string")
	}
	return nil
}

type JobStatus string

const (
	JobStatusPending    JobStatus = "Pending"
	JobStatusDispatched JobStatus = "Dispatched"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusInvoiced   JobStatus = "Invoiced"
	JobStatusCancelled  JobStatus = "Cancelled"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusConfirmed InvoiceStatus = "Confirmed"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusVoid      InvoiceStatus = "Void"
)

type UserRole string

const (
	UserRoleAdmin      UserRole = "Admin"
	UserRoleDispatcher UserRole = "Dispatcher"
	UserRoleViewer     UserRole = "Viewer"
)
