package transport

import (
	"context"
	"event-catalog/internal/domain"
	"event-catalog/internal/log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type ctxKey int

const uidKey ctxKey = iota

// UserID returns the verified Firebase UID stored by WithAuthProtection.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(uidKey).(string)
	return uid
}

// WithAuthProtection lets read-only requests through and requires a verified
// Firebase ID token for everything else:
// 1. GET/HEAD/OPTIONS -> public
// 2. Bearer token verified by Firebase -> full access
// 3. Otherwise -> 401 Unauthorized
func WithAuthProtection(next http.Handler, verifier TokenVerifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			w.Header().Set("X-Access-Type", "Public")
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		idToken, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(idToken) == "" || verifier == nil {
			writeJSON(w, http.StatusUnauthorized, domain.APIResponse{Error: "Unauthorized: Login required"})
			return
		}

		token, err := verifier.VerifyIDToken(r.Context(), strings.TrimSpace(idToken))
		if err != nil {
			log.Error("id token rejected", err, "path", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, domain.APIResponse{Error: "Unauthorized: invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), uidKey, token.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
