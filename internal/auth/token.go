package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie carries the staff token for the browser dashboard. POS
// terminals send it as a bearer header instead.
const SessionCookie = "pos_session"

var ErrInvalidStaffID = errors.New("token staff_id is not a uuid")

// StaffClaims is issued by the external auth service.
type StaffClaims struct {
	StaffID string `json:"staff_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// ExtractStaffToken returns the raw staff token of r, or "" when the
// request carries none.
func ExtractStaffToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}

	return ""
}

// ParseStaffToken verifies an HMAC-signed staff token and returns the
// acting staff id with its claims.
func ParseStaffToken(tokenStr string, secret []byte) (uuid.UUID, *StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return uuid.Nil, nil, err
	}
	if !token.Valid {
		return uuid.Nil, nil, jwt.ErrTokenInvalidClaims
	}

	staffID, err := uuid.Parse(claims.StaffID)
	if err != nil {
		return uuid.Nil, nil, ErrInvalidStaffID
	}
	return staffID, claims, nil
}
