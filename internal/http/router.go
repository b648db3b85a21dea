// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, sessions, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Cookie sessions guarding every registry endpoint except auth itself
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/kitadesk/kitadesk-backend/internal/config"
	"github.com/kitadesk/kitadesk-backend/internal/http/handlers"
	"github.com/kitadesk/kitadesk-backend/internal/http/middleware"
	"github.com/kitadesk/kitadesk-backend/internal/notify"
	"github.com/kitadesk/kitadesk-backend/internal/realtime"
	"github.com/kitadesk/kitadesk-backend/internal/sequence"
	"github.com/kitadesk/kitadesk-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS, security headers, cookie sessions, health and metrics endpoints, and
// then mounts the versioned API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. AccessLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and security headers
//  9. Cookie sessions (auth guard applied per route group)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with phone/UUID scrubbing
	r.Use(middleware.AccessLogger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture. Credentials require an explicit origin allowlist;
	// without one we allow all origins but cookies will not cross sites.
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// 9) Cookie sessions back the auth guard below
	r.Use(middleware.Sessions(cfg.Session))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/hub
	loc, err := config.LoadLocation(cfg.CounterTZ)
	if err != nil {
		log.Warn().Err(err).Str("zone", cfg.CounterTZ).Msg("unknown counter timezone, using local time")
		loc = time.Local
	}

	settingsSvc := &services.SettingsService{DB: db}
	childSvc := &services.ChildService{
		DB:     db,
		Seq:    sequence.New(db, loc),
		Events: hub,
	}
	actionSvc := &services.ActionService{
		DB:        db,
		Notifier:  notify.NewWebhookNotifier(cfg.WebhookTimeout, settingsSvc.WebhookURL),
		Events:    hub,
		Templates: settingsSvc.MessageTemplate,
	}
	authSvc := &services.AuthService{DB: db, BcryptCost: cfg.BcryptCost}

	h := handlers.New(childSvc, actionSvc, authSvc, settingsSvc)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Auth (register and login are reachable without a session)
		api.POST("/auth/register", h.RegisterUser)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)

		guarded := api.Group("", middleware.RequireAuth())
		{
			guarded.GET("/auth/user", h.CurrentUser)

			// Children
			guarded.POST("/children", h.CreateChild)
			guarded.GET("/children", h.ListChildren)
			guarded.GET("/children/:id", h.GetChild)
			guarded.DELETE("/children/:id", h.CheckOutChild)

			// Actions
			guarded.POST("/actions", h.CreateAction)
			guarded.GET("/actions", h.ListActions)

			// Settings
			guarded.GET("/settings", h.ListSettings)
			guarded.PUT("/settings/:key", h.PutSetting)
		}
	}

	// Realtime fan-out. Mounted at the root rather than under the API prefix
	// so clients dial the same path regardless of API versioning. Still
	// session-guarded.
	r.GET("/ws", middleware.RequireAuth(), realtime.ServeWS(hub))
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
