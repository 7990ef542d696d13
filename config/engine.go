package config

import (
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// EngineSettings carries the deployment-level billing constants.
// These are injected into the calculation engine at construction time so
// jurisdictions and rates can vary per deployment without code changes.
type EngineSettings struct {
	// TaxRatePercent is the jurisdictional sales tax (HST), 0-100 scale.
	TaxRatePercent decimal.Decimal

	// DefaultHourlyRate is applied when an hourly rate card carries a zero rate.
	DefaultHourlyRate decimal.Decimal

	// AmountTolerance is the cached-vs-calculated drift below which a
	// relationship amount is considered consistent.
	AmountTolerance decimal.Decimal

	// ReconcileWorkers bounds concurrent per-job validations in an invoice pass.
	ReconcileWorkers int
}

var (
	engineSettings     EngineSettings
	engineSettingsOnce sync.Once
)

func GetEngineSettings() EngineSettings {
	engineSettingsOnce.Do(func() {
		engineSettings = EngineSettings{
			TaxRatePercent:    decimalFromEnv("TAX_RATE_PERCENT", "13"),
			DefaultHourlyRate: decimalFromEnv("DEFAULT_HOURLY_RATE", "0"),
			AmountTolerance:   decimalFromEnv("AMOUNT_TOLERANCE", "0.01"),
			ReconcileWorkers:  intFromEnv("RECONCILE_WORKERS", 4),
		}
	})
	return engineSettings
}

func decimalFromEnv(key string, def string) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		v = def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		d, _ = decimal.NewFromString(def)
	}
	return d
}
