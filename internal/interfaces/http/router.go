package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/textselect/internal/config"
	"github.com/turtacn/textselect/internal/monitoring/logging"
)

// RouterDeps aggregates everything the route tree needs.
type RouterDeps struct {
	Provider ContainerProvider
	Logger   logging.Logger

	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter constructs the complete route tree: the three inference
// endpoints under /v1, plus health and metrics.
func NewRouter(cfg config.ServerConfig, deps RouterDeps) http.Handler {
	gin.SetMode(ginMode(cfg.Mode))

	log := deps.Logger
	if log == nil {
		log = logging.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	if cfg.MaxBodySize > 0 {
		r.Use(bodyLimit(cfg.MaxBodySize))
	}

	h := &inferenceHandler{provider: deps.Provider}

	r.GET("/healthz", h.health)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	{
		v1.POST("/selection", h.suggestSelection)
		v1.POST("/classification", h.classifyText)
		v1.POST("/annotations", h.annotate)
	}

	return r
}

func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// requestLogger emits one structured entry per request.
func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Info("request",
			logging.String("request_id", requestID),
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)))
	}
}

// bodyLimit rejects request bodies larger than n bytes before the JSON
// decoder buffers them.
func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
