package engine

import (
	"bitbucket.org/roadstar/haulage_backend/config"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

// Engine is the job amount calculation and invoice reconciliation core.
// Calculation is pure; aggregation and reconciliation read through the Store.
type Engine struct {
	store    Store
	settings config.EngineSettings
	logger   *logrus.Logger
	locker   *redislock.Client
}

// New wires the engine. locker may be nil; redis locking is a best-effort
// optimization on top of the store's own write serialization.
func New(store Store, settings config.EngineSettings, logger *logrus.Logger, locker *redislock.Client) *Engine {
	if settings.ReconcileWorkers <= 0 {
		settings.ReconcileWorkers = 1
	}
	return &Engine{
		store:    store,
		settings: settings,
		logger:   logger,
		locker:   locker,
	}
}
