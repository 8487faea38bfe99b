package middleware

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// Message sends are limited per signed-in user: 1 msg/s, burst 10.
const (
	messageSendRPS   = 1
	messageSendBurst = 10
)

// MessageRateLimit limits message sends per user. It must run after
// RequireAuth so the user is known.
func MessageRateLimit() func(http.Handler) http.Handler {
	limiters := newLimiterSet(rate.Limit(messageSendRPS), messageSendBurst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserID(r.Context())
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(messageSendBurst))
			if !limiters.allow(userID) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				rateLimited(w, "You're sending messages too fast. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
