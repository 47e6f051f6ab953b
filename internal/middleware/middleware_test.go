package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restopos-be/internal/auth"
	"restopos-be/internal/logger"
	"restopos-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.Claims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestAuth(t *testing.T) {
	staffID := uuid.New()

	t.Run("Missing Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetStaffIDFromContext(r.Context())
			assert.False(t, ok, "Context should not contain staff ID")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/orders/x", nil)
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders/x", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid Token", func(t *testing.T) {
		token := signToken(t, auth.StaffClaims{
			StaffID: staffID.String(),
			Role:    "chef",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)

		req := httptest.NewRequest("PATCH", "/api/v1/orders/x/status", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := utils.GetStaffIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, staffID, id)
			assert.Equal(t, "chef", utils.GetStaffRoleFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(testSecret)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token := signToken(t, auth.StaffClaims{StaffID: staffID.String()}, []byte("other-secret"))

		req := httptest.NewRequest("GET", "/api/v1/orders/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token := signToken(t, auth.StaffClaims{
			StaffID: staffID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}, testSecret)

		req := httptest.NewRequest("GET", "/api/v1/orders/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Non UUID Staff ID", func(t *testing.T) {
		token := signToken(t, auth.StaffClaims{StaffID: "42"}, testSecret)

		req := httptest.NewRequest("GET", "/api/v1/orders/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders/x", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetStaffIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(testSecret)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(ok)

	t.Run("StrictTierForAnonymousOrderPlacement", func(t *testing.T) {
		deviceID := uuid.NewString()
		codes := map[int]int{}
		for i := 0; i < burstStrict+3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
			req.Header.Set("X-Device-ID", deviceID)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes[w.Code]++
		}

		assert.Equal(t, burstStrict, codes[http.StatusOK])
		assert.Equal(t, 3, codes[http.StatusTooManyRequests])
	})

	t.Run("StaffPollingIsNotStrict", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/x/orders/active", nil)
		req.Header.Set("X-Client-Type", "poller")
		req = req.WithContext(utils.SetStaffContext(req.Context(), uuid.New(), "waiter"))

		limit, burst, tier := resolveRateTier(req)

		assert.Equal(t, "polling", tier)
		assert.Equal(t, limitPolling, limit)
		assert.Equal(t, burstPolling, burst)
		assert.Contains(t, requestIdentity(req), "staff:")
	})

	t.Run("InternalTier", func(t *testing.T) {
		t.Setenv("INTERNAL_SECRET_KEY", "s3cret")
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Service-Auth", "s3cret")

		_, _, tier := resolveRateTier(req)

		assert.Equal(t, "internal", tier)
	})

	t.Run("IdentityFallsBackToIP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.7:5123"

		assert.Equal(t, "ip:10.0.0.7", requestIdentity(req))
	})

	t.Run("EvictsStaleVisitors", func(t *testing.T) {
		key := "test:" + uuid.NewString()
		getVisitor(key, limitGeneral, burstGeneral)

		evictStaleVisitors(time.Now().Add(visitorTTL + time.Second))

		mu.Lock()
		_, exists := visitors[key]
		mu.Unlock()
		assert.False(t, exists)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	handler := logger.RequestIDMiddleware(LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})))

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/x/status", nil)
	req.Header.Set(logger.RequestIDHeader, "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusConflict), fields["status"])
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "/api/v1/orders/x/status", fields["path"])
}
