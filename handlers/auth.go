package handlers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/models"
	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func tokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		hours = 24
	}
	return time.Hour * time.Duration(hours)
}

func LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		user, err := models.GetUserByUsername(c.Request.Context(), config.GetDB(), req.Username)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := utils.ComparePassword(user.Password, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := utils.JwtGenerate(user.ID, string(user.Role))
		if err != nil {
			config.LogError(config.GetLogger(), "auth.go", "LoginHandler", "generating token", user.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}
		if err := config.SetRedisValue("Token:"+token, user.Username, tokenLifespan()); err != nil {
			config.LogError(config.GetLogger(), "auth.go", "LoginHandler", "storing session", user.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"username": user.Username,
			"role":     user.Role,
		})
	}
}

func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.GetTokenFromContext(c.Request.Context())
		if !ok || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if err := config.RemoveRedisKey("Token:" + token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear session"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
