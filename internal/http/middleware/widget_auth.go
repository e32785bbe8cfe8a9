package middleware

import (
	"crypto/subtle"
	"net/http"
)

// WidgetSecretHeader carries the shared secret embedded in the chat widget.
const WidgetSecretHeader = "X-Widget-Secret"

// WidgetSecret rejects widget requests that do not present the shared
// secret. An empty configured secret disables the check so local setups
// work without one.
func WidgetSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get(WidgetSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
