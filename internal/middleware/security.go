package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/config"
)

// SecurityHeaders sets CSP and related headers. The development policy
// stays loose enough for local frontend tooling (inline scripts, websocket
// HMR); production tightens everything down.
func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	csp := developmentCSP
	hsts := "max-age=31536000; includeSubDomains"
	if cfg.IsProduction() {
		csp = productionCSP
		hsts = "max-age=31536000; includeSubDomains; preload"
	}

	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", csp)
		c.Header("Strict-Transport-Security", hsts)
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}

const developmentCSP = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"font-src 'self' data:; " +
	"connect-src 'self' ws: wss:; " +
	"frame-ancestors 'none'"

const productionCSP = "default-src 'self'; " +
	"script-src 'self'; " +
	"style-src 'self'; " +
	"img-src 'self' data: https:; " +
	"font-src 'self' data:; " +
	"connect-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'; " +
	"upgrade-insecure-requests"
