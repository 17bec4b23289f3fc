package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

const secretHeader = "X-Webhook-Secret"

// RequireSecret rejects requests whose X-Webhook-Secret header does not match
// the shared secret. The portal presents the same secret on every change
// notification and manual sync trigger.
func RequireSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(secretHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data":  nil,
					"error": map[string]string{"code": "unauthorized", "message": "invalid webhook secret"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
