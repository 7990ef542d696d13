package handlers

import (
	"net/http"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/engine"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/gin-gonic/gin"
)

// newEngine builds a request-scoped engine. The DB and redis handles connect
// after the HTTP server starts listening, so they are looked up per request
// instead of being captured at route registration time.
func newEngine() *engine.Engine {
	return engine.New(
		engine.NewGormStore(config.GetDB()),
		config.GetEngineSettings(),
		config.GetLogger(),
		config.GetRedisLock(),
	)
}

// requireSession aborts with 401 unless SessionMiddleware resolved a user.
func requireSession(c *gin.Context) bool {
	if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}

func pathId(c *gin.Context, name string) (int, bool) {
	id, err := pathInt(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
