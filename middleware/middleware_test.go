package middleware

import (
	"net/http"
	"net/http/httptest"
	"settleup-backend/config"
	"settleup-backend/utils"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := config.AppConfig
	config.AppConfig = &config.Config{AppName: "SettleUp", JWTSecret: "test-secret", JWTTTL: time.Hour}
	t.Cleanup(func() { config.AppConfig = prev })

	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, utils.GetCurrentUserID(c).String())
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	r := newRouter(t)
	id := uuid.New()
	token, err := utils.GenerateToken(id, "a@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, id.String(), w.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "http://localhost:19006")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
