package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security middleware configuration
type SecurityConfig struct {
	MaxRequestSize    int64
	RateLimitRequests int
	RateLimitWindow   time.Duration
	DisableRateLimit  bool
}

// DefaultSecurityConfig returns default security configuration
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxRequestSize:    1024 * 1024, // 1MB
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// ipLimiters hands out one token bucket per client IP
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func newIPLimiters(requests int, window time.Duration) *ipLimiters {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// SecurityMiddleware enforces request size, per-IP rate limits and JSON bodies
func SecurityMiddleware(config *SecurityConfig, log *zap.SugaredLogger) gin.HandlerFunc {
	if config == nil {
		config = DefaultSecurityConfig()
	}
	limiters := newIPLimiters(config.RateLimitRequests, config.RateLimitWindow)

	return func(c *gin.Context) {
		// 1. Request size validation
		if c.Request.ContentLength > config.MaxRequestSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   "Request body too large",
			})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxRequestSize)
		}

		// 2. Rate limiting per IP
		if !config.DisableRateLimit {
			clientIP := c.ClientIP()
			if !limiters.get(clientIP).Allow() {
				log.Warnw("🚨 Rate limit exceeded", "ip", clientIP, "method", c.Request.Method, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"success": false,
					"error":   "Rate limit exceeded",
				})
				return
			}
		}

		// 3. Ledger writes are JSON only
		if (c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut) && c.Request.ContentLength != 0 {
			contentType := c.GetHeader("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"success": false,
					"error":   "Unsupported content type: " + contentType,
				})
				return
			}
		}

		// 4. Security headers
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")

		c.Next()
	}
}

// RequestLogger logs every request with its status and latency
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Errorw("request", fields...)
			return
		}
		log.Infow("request", fields...)
	}
}
