package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/pkg/jwthelper"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", NewAuthenticator("secret").VerifyJWT(), func(ctx *gin.Context) {
		claims := ctx.MustGet(ClaimsKey).(*jwthelper.AdminClaims)
		ctx.String(http.StatusOK, claims.Subject)
	})
	return r
}

func TestVerifyJWT(t *testing.T) {
	token, _, err := jwthelper.GenerateToken([]byte("secret"), "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
	}{
		{name: "no token", wantCode: http.StatusUnauthorized},
		{name: "bearer header", header: "Bearer " + token, wantCode: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, wantCode: http.StatusOK},
		{name: "query token", query: "?token=" + token, wantCode: http.StatusOK},
		{name: "wrong scheme", header: "Basic " + token, wantCode: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", wantCode: http.StatusUnauthorized},
	}

	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, jwthelper.AdminSubject, rec.Body.String())
			}
		})
	}
}
