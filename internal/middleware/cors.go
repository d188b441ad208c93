package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// defaultOrigin is always allowed so local development works out of the box.
const defaultOrigin = "http://localhost:3000"

// CORS creates CORS middleware for the given origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}

// CORSFromEnv creates CORS middleware from the FRONTEND_URL setting, which
// may hold a comma-separated list of origins.
func CORSFromEnv(frontendURL string) func(http.Handler) http.Handler {
	origins := []string{defaultOrigin}
	for _, origin := range strings.Split(frontendURL, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" || trimmed == defaultOrigin {
			continue
		}
		origins = append(origins, trimmed)
	}
	return CORS(origins)
}
