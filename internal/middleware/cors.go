package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS lets the listed browser origins call the JSON endpoints with the
// session cookie attached.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", HeaderRequestID, HeaderIdempotencyKey,
		},
		ExposeHeaders:    []string{"Content-Length", HeaderRequestID, "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
