// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"townguide/internal/http/middleware"
)

// Routes builds the gin engine. Health and metrics bypass auth and the
// rate limiter.
func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if s.rateRPS > 0 && s.rateBurst > 0 {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(s.rateRPS, s.rateBurst)))
	}
	api.Use(middleware.Auth(s.verifier))
	api.POST("/chat", s.chat.Chat)
	api.GET("/places", s.places.List)

	return r
}
