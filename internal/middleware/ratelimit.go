package middleware

import (
	"net/http"

	"github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit caps requests per client IP using an in-memory store. Used on the
// public webhook endpoints which are reachable without authentication.
func RateLimit(formatted string) func(http.Handler) http.Handler {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		panic(err)
	}

	instance := limiter.New(memory.NewStore(), rate)
	middleware := mhttp.NewMiddleware(instance)

	return func(next http.Handler) http.Handler {
		return middleware.Handler(next)
	}
}
