package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// protected validates the API key, then applies the per-key rate limit.
func (api *RestAPI) protected(h handlerFunc) http.Handler {
	limited := api.rateLimiter.Handler(http.HandlerFunc(h))
	return validateAPIKey(api, limited.ServeHTTP)
}

// SetRoutes registers the API endpoints on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/active-services/:day", api.protected(api.activeServicesHandler))
	router.Handler(http.MethodGet, "/api/where/trip-counts-for-stop/:id", api.protected(api.tripCountsForStopHandler))
	router.Handler(http.MethodGet, "/api/where/trip-counts", api.protected(api.tripCountsHandler))
	router.Handler(http.MethodPost, "/api/where/enrich-traversal", api.protected(api.enrichTraversalHandler))
	router.Handler(http.MethodGet, "/api/where/feed-statistics", api.protected(api.feedStatisticsHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Routes returns the complete handler: router, compression, security headers
// and request logging, outermost last. extra registers additional routes on
// the same router.
func (api *RestAPI) Routes(extra ...func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	for _, register := range extra {
		register(router)
	}

	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = securityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}
