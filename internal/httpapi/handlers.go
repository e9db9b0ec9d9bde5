package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/core/services"
	"github.com/estambul-delivery/shiftledger/pkg/db"
	"github.com/estambul-delivery/shiftledger/pkg/report"
)

type reviewRequest struct {
	ReviewedBy  string `json:"reviewedBy"`
	ReviewNotes string `json:"reviewNotes"`
}

func (s *Server) submitShift(c *gin.Context) {
	var input services.ShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"ingrese los datos correctamente"}})
		return
	}

	shift, violations, err := services.SubmitShift(c.Request.Context(), s.store, s.mirror, s.notifier, s.logger, input)
	if err != nil {
		s.logger.Error("Failed to submit shift", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "no se pudo registrar el turno"})
		return
	}
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": violations})
		return
	}

	c.JSON(http.StatusCreated, shift)
}

func (s *Server) listShifts(c *gin.Context) {
	filter := db.ShiftFilter{
		Status:   model.Status(c.Query("status")),
		DriverID: c.Query("driver"),
		FromDate: c.Query("from"),
		ToDate:   c.Query("to"),
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	shifts, err := s.store.ListShifts(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("Failed to list shifts", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list shifts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

func (s *Server) getShift(c *gin.Context) {
	shift, err := s.store.GetShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.logger.Error("Failed to get shift", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get shift"})
		return
	}
	if shift == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "shift not found"})
		return
	}

	c.JSON(http.StatusOK, shift)
}

func (s *Server) reviewShift(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review payload"})
		return
	}
	if req.ReviewedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewedBy is required"})
		return
	}

	updated, err := services.ReviewShift(c.Request.Context(), s.store, s.notifier, s.logger, c.Param("id"), req.ReviewedBy, req.ReviewNotes)
	if err != nil {
		s.logger.Error("Failed to review shift", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to review shift"})
		return
	}
	if !updated {
		c.JSON(http.StatusConflict, gin.H{"error": "shift is not pending"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(model.StatusReviewed)})
}

func (s *Server) currentShift(c *gin.Context) {
	shift, err := services.CurrentShift(c.Request.Context(), s.store, s.mirror, s.logger, c.Param("driverId"))
	if err != nil {
		s.logger.Error("Failed to resolve current shift", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to resolve current shift"})
		return
	}
	if shift == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no current shift"})
		return
	}

	c.JSON(http.StatusOK, shift)
}

func (s *Server) previousShift(c *gin.Context) {
	shift, err := services.PreviousShift(c.Request.Context(), s.store, s.logger, c.Param("driverId"))
	if err != nil {
		s.logger.Error("Failed to load previous shift", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load previous shift"})
		return
	}
	if shift == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no previous shift"})
		return
	}

	c.JSON(http.StatusOK, shift)
}

func (s *Server) saveDraft(c *gin.Context) {
	var input services.ShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draft payload"})
		return
	}

	input.DriverID = c.Param("driverId")
	if err := services.SaveDraft(s.mirror, input.DriverID, input); err != nil {
		s.logger.Error("Failed to save draft", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to save draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (s *Server) sweepPending(c *gin.Context) {
	swept, err := services.SweepPending(c.Request.Context(), s.store, s.notifier, s.logger, s.cutoffRule, time.Now())
	if err != nil {
		s.logger.Error("Sweep failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"swept": swept})
}

func (s *Server) reviewMetrics(c *gin.Context) {
	shifts, err := s.store.ListShifts(c.Request.Context(), db.ShiftFilter{})
	if err != nil {
		s.logger.Error("Failed to list shifts for metrics", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, report.BuildReviewMetrics(shifts, time.Now()))
}

func (s *Server) monthlyReport(c *gin.Context) {
	month := c.Param("month")
	monthly, err := services.MonthlyReport(c.Request.Context(), s.store, s.logger, month)
	if err != nil {
		s.logger.Error("Failed to build monthly report", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build report for " + month})
		return
	}

	switch c.Query("format") {
	case "csv":
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, monthly); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode report"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=reporte-mensual-"+month+".csv")
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, monthly); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode report"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=reporte-mensual-"+month+".xlsx")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		c.JSON(http.StatusOK, monthly)
	}
}
