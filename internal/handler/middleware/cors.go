package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"booking-core/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	HeaderReplayed   = "Idempotent-Replayed"
	HeaderRetryAfter = "Retry-After"
	HeaderLocation   = "Location"
)

// Booking clients depend on these whatever the deployment configures.
var (
	requiredAllowHeaders  = []string{"Authorization", "Content-Type", HeaderIdempotencyKey}
	requiredExposeHeaders = []string{HeaderLocation, HeaderReplayed, HeaderRetryAfter}
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withRequired(cfg.AllowHeaders, requiredAllowHeaders),
		ExposeHeaders:    withRequired(cfg.ExposeHeaders, requiredExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "expose_headers", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

func withRequired(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, h := range required {
		if !slices.ContainsFunc(out, func(c string) bool { return http.CanonicalHeaderKey(c) == h }) {
			out = append(out, h)
		}
	}
	return out
}
