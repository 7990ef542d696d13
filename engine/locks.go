package engine

import (
	"fmt"

	"gorm.io/gorm"
)

// acquireReconcileLock serializes cached-amount writes per (invoice, job) pair
// across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that performs the write.
func acquireReconcileLock(tx *gorm.DB, invoiceId int, jobId int) error {
	lockName := fmt.Sprintf("reconcile:%d:%d", invoiceId, jobId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire reconcile lock for invoice_id=%d job_id=%d", invoiceId, jobId)
	}
	return nil
}

func releaseReconcileLock(tx *gorm.DB, invoiceId int, jobId int) {
	lockName := fmt.Sprintf("reconcile:%d:%d", invoiceId, jobId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
