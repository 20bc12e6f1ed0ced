// Package restapi exposes the workspace status API: workspace summary,
// registered suites, on-demand suite runs, and the catalog index.
package restapi

import (
	"net/http"
	"time"

	"qtdata.quanttide.cn/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter func(http.Handler) http.Handler
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}
