package query

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/overlandla/nebenkosten-sub000/internal/core/errors"
)

// RegisterRoutes registers the readings query routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/v1/readings/:meter_id", s.HandleReadings)
	r.GET("/api/v1/readings", s.HandleMultiReadings)
}

// HandleReadings handles GET /api/v1/readings/:meter_id
// Query parameters: start, end, type, source
func (s *Service) HandleReadings(c *gin.Context) {
	var uri struct {
		MeterID string `uri:"meter_id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid path parameters",
			Details:   err.Error(),
		})
		return
	}

	var req ReadingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}
	req.MeterID = uri.MeterID

	resp, err := s.QueryReadings(c.Request.Context(), req)
	if err != nil {
		writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleMultiReadings handles GET /api/v1/readings
// Query parameters: meter (repeatable), start, end, type, source
func (s *Service) HandleMultiReadings(c *gin.Context) {
	var req MultiReadingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.QueryMultiReadings(c.Request.Context(), req)
	if err != nil {
		writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func writeQueryError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid readings query",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Failed to query readings",
		Details:   err.Error(),
	})
}
