package middleware

import (
	"slices"

	"github.com/go-chi/cors"
)

// NewCORS creates the CORS middleware for the given allowed origins.
// Credentials are only allowed when origins are listed explicitly; a "*"
// entry opens the API to any origin without cookies.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			UserIDHeader,
			APIKeyHeader,
			TimeTokenHeader,
		},
		ExposedHeaders:   []string{"Content-Type", RequestIDHeader},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		MaxAge:           300,
	})
}
