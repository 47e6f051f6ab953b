package middleware

import (
	"net/http"

	"restopos-be/internal/auth"
	"restopos-be/internal/logger"
	"restopos-be/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware identifies the acting staff member from an optional
// token. Requests without a token pass through anonymously, a token that
// does not verify is rejected.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractStaffToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			staffID, claims, err := auth.ParseStaffToken(tokenStr, secret)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("rejected staff token", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetStaffContext(r.Context(), staffID, claims.Role)
			ctx = logger.WithActorID(ctx, staffID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
