package routes

import (
	"net/http"

	"github.com/zatekoja/volunteerconnect/backend/internal/api/handlers"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/middleware"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	importHandler      *handlers.HospitalImportHandler
	opportunityHandler *handlers.OpportunityHandler
	geolocationHandler *handlers.GeolocationHandler
	progressHandler    *handlers.ImportProgressHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. progressHandler and cacheMiddleware may
// be nil.
func NewRouter(
	importHandler *handlers.HospitalImportHandler,
	opportunityHandler *handlers.OpportunityHandler,
	geolocationHandler *handlers.GeolocationHandler,
	progressHandler *handlers.ImportProgressHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		importHandler:      importHandler,
		opportunityHandler: opportunityHandler,
		geolocationHandler: geolocationHandler,
		progressHandler:    progressHandler,
		cacheMiddleware:    cacheMiddleware,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.mux.HandleFunc("POST /api/import/hospitals", r.importHandler.ImportHospitals)
	r.mux.HandleFunc("GET /api/opportunities", r.opportunityHandler.ListOpportunities)
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	if r.progressHandler != nil {
		r.mux.HandleFunc("GET /api/import/hospitals/progress", r.progressHandler.StreamProgress)
	}

	var handler http.Handler = r.mux
	handler = middleware.Logging(handler)
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.Observability(r.metrics)(handler)
	handler = middleware.CacheControl(middleware.Compression(handler))

	// CORS is outermost so preflight requests never reach the mux.
	return middleware.CORS(r.allowedOrigins)(handler)
}
