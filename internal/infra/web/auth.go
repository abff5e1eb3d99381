package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// UserClaims is the bearer token payload. UserID identifies the caller; the
// registered claims carry expiry.
type UserClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthManager validates HS256 bearer tokens.
type AuthManager struct {
	secret []byte
}

func NewAuthManager(secret string) *AuthManager {
	return &AuthManager{secret: []byte(secret)}
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's user id in the request context.
func (a *AuthManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AuthManager) parseFromRequest(r *http.Request) (*UserClaims, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return nil, errors.New("missing token")
	}
	if !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return nil, errors.New("malformed authorization header")
	}
	return a.parse(strings.TrimSpace(hdr[7:]))
}

func (a *AuthManager) parse(tok string) (*UserClaims, error) {
	claims := &UserClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token missing user id")
	}
	return claims, nil
}

// Mint signs a token for the user; used by tests and local tooling.
func (a *AuthManager) Mint(claims UserClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// userIDFrom returns the authenticated caller's id, or 0 outside the auth
// middleware.
func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
