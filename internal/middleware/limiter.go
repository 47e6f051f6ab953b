package middleware

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"restopos-be/internal/utils"

	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Order placement from customer devices (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Polling dashboards and kitchen screens
	limitPolling = rate.Limit(20)
	burstPolling = 40

	// Internal / trusted services
	limitInternal = rate.Limit(100)
	burstInternal = 200
)

const visitorTTL = 3 * time.Minute

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

// init starts the background cleanup routine.
func init() {
	go cleanupVisitors()
}

// getVisitor retrieves or creates a rate limiter for the given key.
func getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		evictStaleVisitors(time.Now())
	}
}

func evictStaleVisitors(now time.Time) {
	mu.Lock()
	defer mu.Unlock()
	for key, v := range visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(visitors, key)
		}
	}
}

// RateLimitMiddleware checks if the request is allowed by the rate limiter.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveRateTier(r)

		// Same identity gets separate quotas per tier, e.g. "staff:<id>:polling".
		key := fmt.Sprintf("%s:%s", requestIdentity(r), tier)

		limiter := getVisitor(key, limit, burst)
		if !limiter.Allow() {
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIdentity prefers the authenticated staff member, then a client
// supplied device id, then the remote IP.
func requestIdentity(r *http.Request) string {
	if staffID, ok := utils.GetStaffIDFromContext(r.Context()); ok {
		return "staff:" + staffID.String()
	}
	if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

// resolveRateTier determines which rate limit policy applies to the request.
func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	internalKey := os.Getenv("INTERNAL_SECRET_KEY")
	if internalKey != "" && r.Header.Get("X-Service-Auth") == internalKey {
		return limitInternal, burstInternal, "internal"
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/v1/orders" {
		if _, isStaff := utils.GetStaffIDFromContext(r.Context()); !isStaff {
			return limitStrict, burstStrict, "strict"
		}
	}

	if r.Method == http.MethodGet && r.Header.Get("X-Client-Type") == "poller" {
		return limitPolling, burstPolling, "polling"
	}

	return limitGeneral, burstGeneral, "general"
}
