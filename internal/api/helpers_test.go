package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

const testSecret = "api-test-secret"

type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	cfg := &config.Config{JWTSecret: testSecret}
	srv := server.New(cfg, db, nil, nil, nil, zap.NewNop())

	return &testEnv{
		engine: srv.Engine(),
		db:     db,
		auth:   service.NewAuthService(db, testSecret),
	}
}

func (e *testEnv) token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := e.auth.GenerateToken(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

// request performs an HTTP request against the test router. token may be
// empty for anonymous requests; body may be nil.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func recipePayload(name string, tagID, ingredientID uuid.UUID, amount int) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Step one, step two.",
		"cooking_time": 15,
		"tags":         []string{tagID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ingredientID.String(), "amount": amount},
		},
	}
}
