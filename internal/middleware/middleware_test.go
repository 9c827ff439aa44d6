package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/auth"
	"github.com/mmynk/kanzlei/internal/models"
)

func TestBearerToken(t *testing.T) {
	_, err := bearerToken("")
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	_, err = bearerToken("Basic abc")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = bearerToken("Bearer")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = bearerToken("Bearer abc def")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	token, err := bearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = bearerToken("bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)
}

func TestIdentity(t *testing.T) {
	ctx := context.Background()
	_, ok := IdentityFrom(ctx)
	assert.False(t, ok)
	assert.Empty(t, GetUserID(ctx))

	ctx = WithIdentity(ctx, Identity{UserID: "u-1", Email: "anna@kanzlei.de", Name: "Anna Schmidt", Role: models.RoleAdmin})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "anna@kanzlei.de", GetEmail(ctx))
	assert.Equal(t, models.RoleAdmin, GetRole(ctx))
}

func TestServerFault(t *testing.T) {
	assert.True(t, serverFault(connect.CodeInternal))
	assert.True(t, serverFault(connect.CodeUnavailable))
	assert.False(t, serverFault(connect.CodeNotFound))
	assert.False(t, serverFault(connect.CodeUnauthenticated))
}

func TestRequireAuthHTTP(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("anna@kanzlei.de", "Anna Schmidt", "hash")
	user.Role = models.RoleAdvisor
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	var seenUser, seenName, seenRole string
	handler := RequireAuthHTTP(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = GetUserID(r.Context())
		seenName = GetName(r.Context())
		seenRole = GetRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/x/file", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/documents/x/file", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"invalid or expired token"}`, rec.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/documents/x/file", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, user.ID, seenUser)
		assert.Equal(t, "Anna Schmidt", seenName)
		assert.Equal(t, models.RoleAdvisor, seenRole)
	})
}

func TestCORS(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestMetricsInstrumentHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	handler := m.InstrumentHTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	for range 2 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/documents/upload", nil))
	}

	expected := `
# HELP kanzlei_file_requests_total Number of file upload and download requests by method and status code.
# TYPE kanzlei_file_requests_total counter
kanzlei_file_requests_total{code="201",method="post"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "kanzlei_file_requests_total"))
}
