// Package httpapi exposes the shift ledger over HTTP for the web frontend.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/cache"
	"github.com/estambul-delivery/shiftledger/pkg/db"
	"github.com/estambul-delivery/shiftledger/pkg/notify"
)

// Server wires the shift services to a gin router
type Server struct {
	store      db.ShiftStore
	mirror     cache.Store
	notifier   notify.StatusNotifier
	logger     *zap.Logger
	cutoffRule string
}

func NewServer(store db.ShiftStore, mirror cache.Store, notifier notify.StatusNotifier, logger *zap.Logger, cutoffRule string) *Server {
	return &Server{
		store:      store,
		mirror:     mirror,
		notifier:   notifier,
		logger:     logger,
		cutoffRule: cutoffRule,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/shifts", s.submitShift)
		v1.GET("/shifts", s.listShifts)
		v1.GET("/shifts/:id", s.getShift)
		v1.POST("/shifts/:id/review", s.reviewShift)
		v1.GET("/shifts/current/:driverId", s.currentShift)
		v1.GET("/shifts/previous/:driverId", s.previousShift)
		v1.PUT("/drafts/:driverId", s.saveDraft)
		v1.POST("/sweep", s.sweepPending)
		v1.GET("/reports/:month", s.monthlyReport)
		v1.GET("/metrics/reviews", s.reviewMetrics)
	}

	return router
}

// Run starts the HTTP server on the given address
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}
