package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/roadstar/haulage_backend/utils"
	"github.com/gin-gonic/gin"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	validToken, err := utils.JwtGenerate(1, "Admin")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	cases := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{"no header passes through", "", http.StatusNoContent},
		{"valid bearer token", "Bearer " + validToken, http.StatusNoContent},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong scheme", "Token " + validToken, http.StatusUnauthorized},
		{"header shorter than scheme", "Bear", http.StatusUnauthorized},
		{"scheme without token", "Bearer", http.StatusUnauthorized},
	}
	router := newAuthTestRouter()
	for _, testCase := range cases {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if testCase.authorization != "" {
			request.Header.Set("Authorization", testCase.authorization)
		}
		router.ServeHTTP(recorder, request)
		if recorder.Code != testCase.expectedStatus {
			t.Fatalf("%s: expected status %d, got %d", testCase.name, testCase.expectedStatus, recorder.Code)
		}
	}
}

func TestAuthMiddleware_ClaimsInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		claim := CtxValue(c.Request.Context())
		if claim == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": claim.ID, "role": claim.Role})
	})

	token, err := utils.JwtGenerate(42, "Standard")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
}
