package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func authTestRouter(validator TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := AuthMiddleware(validator)
	if optional {
		mw = OptionalAuthMiddleware(validator)
	}
	router.GET("/probe", mw, func(c *gin.Context) {
		if id, ok := c.Get("user_id"); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})
	return router
}

func probe(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}}
	invalid := &stubValidator{err: errors.New("token expired")}

	tests := []struct {
		name      string
		validator TokenValidator
		header    string
		wantCode  int
	}{
		{"valid token", valid, "Bearer sometoken", http.StatusOK},
		{"missing header", valid, "", http.StatusUnauthorized},
		{"wrong scheme", valid, "Basic sometoken", http.StatusUnauthorized},
		{"malformed header", valid, "Bearer", http.StatusUnauthorized},
		{"rejected token", invalid, "Bearer sometoken", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := probe(authTestRouter(tt.validator, false), tt.header)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}}
	invalid := &stubValidator{err: errors.New("token expired")}

	// No header passes through anonymously.
	w := probe(authTestRouter(valid, true), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// A valid token attaches the requester.
	w = probe(authTestRouter(valid, true), "Bearer sometoken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	// A bad token degrades to anonymous instead of failing the request.
	w = probe(authTestRouter(invalid, true), "Bearer sometoken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}
