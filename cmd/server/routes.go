package main

import (
	"net/http"
	"time"

	"github.com/HammerMeetNail/studentcomputing/internal/handlers"
	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/middleware"
)

// routeDeps is everything the router needs; main fills it from config.
type routeDeps struct {
	Ideas     *handlers.IdeaHandler
	Pages     *handlers.PageHandler
	Health    *handlers.HealthHandler
	RateLimit middleware.RateLimitStore
	// IdeaRateLimit is submissions per client per minute; 0 disables it.
	IdeaRateLimit int64
	StaticDir     string
	Secure        bool
	KeyPrefix     string
	Logger        *logging.Logger
}

func newRouter(d routeDeps) http.Handler {
	csrfMiddleware := middleware.NewCSRFMiddleware(d.Secure)
	submitLimiter := middleware.NewRateLimiter(d.RateLimit, d.IdeaRateLimit, time.Minute,
		d.KeyPrefix+"ratelimit:ideas:", middleware.ClientIP, d.Logger)

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET /health", d.Health.Health)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /live", d.Health.Live)

	mux.HandleFunc("GET /api/csrf", csrfMiddleware.GetToken)

	// Ideas board
	mux.HandleFunc("GET /api/ideas", d.Ideas.List)
	mux.Handle("POST /api/ideas", submitLimiter.Middleware(http.HandlerFunc(d.Ideas.Submit)))
	mux.HandleFunc("DELETE /api/ideas/{id}", d.Ideas.Delete)

	// Static files
	fs := http.FileServer(http.Dir(d.StaticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))

	mux.HandleFunc("GET /{$}", d.Pages.Index)
	mux.HandleFunc("GET /", d.Pages.NotFound)

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = csrfMiddleware.Protect(handler)
	handler = middleware.NewCacheControl().Apply(handler)
	handler = middleware.NewCompress().Apply(handler)
	handler = middleware.NewSecurityHeaders(d.Secure).Apply(handler)
	handler = middleware.NewRequestLogger(d.Logger).Apply(handler)
	handler = middleware.NewRequestID().Apply(handler)
	return handler
}
