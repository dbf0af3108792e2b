package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig builds the cross-origin policy. Outside production any origin is allowed.
// Production admits only allowedOrigins, or same-origin requests when none are configured.
func CORSConfig(environment string, allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Cache-Control"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        24 * time.Hour,
	}

	switch {
	case environment != "production":
		config.AllowAllOrigins = true
	case len(allowedOrigins) > 0:
		config.AllowOrigins = allowedOrigins
	default:
		config.AllowOriginFunc = func(string) bool { return false }
	}
	return config
}

// CORS returns the cross-origin middleware for the environment
func CORS(environment string, allowedOrigins []string) gin.HandlerFunc {
	return cors.New(CORSConfig(environment, allowedOrigins))
}
