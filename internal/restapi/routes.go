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

// Router builds the full API handler: routing plus rate limiting, gzip
// compression, and request logging.
func (api *RestAPI) Router() http.Handler {
	router := httprouter.New()

	router.Handler(http.MethodGet, "/api/data/status.json", validateAPIKey(api, api.statusHandler))
	router.Handler(http.MethodGet, "/api/data/suites.json", validateAPIKey(api, api.suitesHandler))
	router.Handler(http.MethodGet, "/api/data/check/:suite", validateAPIKey(api, api.checkHandler))
	router.Handler(http.MethodGet, "/api/data/artifacts.json", validateAPIKey(api, api.artifactsHandler))

	var handler http.Handler = router
	handler = applyGzipMiddleware(handler)
	handler = api.rateLimiter(handler)
	handler = api.requestLoggingMiddleware(handler)
	return handler
}
