package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

func (s *Server) RegisterMetricsRoutes() {
	s.Router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive. The cache field carries the cache
// @Description breaker state; "open" means reads bypass the cache.
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	status := map[string]string{
		"status": "OK",
	}
	if s.CacheStatus != nil {
		status["cache"] = s.CacheStatus.State()
	}
	return writeSuccess(c, http.StatusOK, status)
}
