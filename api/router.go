package api

import (
	"net/http"

	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const serviceName = "let_service"

type Handlers struct {
	Airlines  *AirlineHandler
	Flights   *FlightHandler
	Purchases *PurchaseHandler
	Ratings   *RatingHandler
}

// NewRouter mounts every handler on a fresh engine. Swagger UI is served
// only when swaggerDir is set.
func NewRouter(log logger.Logger, swaggerDir string, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), Identity())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "service": serviceName})
	})

	if h.Airlines != nil {
		h.Airlines.Register(r.Group("/airlines"))
	}
	if h.Flights != nil {
		h.Flights.Register(r.Group("/flights"))
	}
	if h.Purchases != nil {
		h.Purchases.Register(r.Group(""))
	}
	if h.Ratings != nil {
		h.Ratings.Register(r.Group("/ratings"))
	}

	if swaggerDir != "" {
		r.Static("/swagger", swaggerDir)
		r.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/letservice.swagger.json"))))
	}
	return r
}
