package restapi

import (
	"time"

	"github.com/gtfs-tools/transitaccess/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with a per-key rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Close stops background work owned by the API.
func (api *RestAPI) Close() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
