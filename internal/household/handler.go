package household

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/overlandla/nebenkosten-sub000/internal/core/errors"
)

// RegisterRoutes registers the config CRUD and cost report routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/v1/households", s.HandleListHouseholds)
	r.POST("/api/v1/households", s.HandleCreateHousehold)
	r.GET("/api/v1/households/:household_id/meters", s.HandleListMeters)
	r.POST("/api/v1/households/:household_id/meters", s.HandleCreateMeter)
	r.DELETE("/api/v1/meters/:meter_id", s.HandleDeleteMeter)
	r.GET("/api/v1/meters/:meter_id/prices", s.HandleListPrices)
	r.PUT("/api/v1/meters/:meter_id/prices", s.HandleSetPrice)
	r.GET("/api/v1/meters/:meter_id/cost", s.HandleCostReport)
}

func (s *Service) HandleListHouseholds(c *gin.Context) {
	households, err := s.ListHouseholds(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"households": households})
}

func (s *Service) HandleCreateHousehold(c *gin.Context) {
	var h Household
	if err := c.ShouldBindJSON(&h); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := s.CreateHousehold(c.Request.Context(), h)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Service) HandleListMeters(c *gin.Context) {
	meters, err := s.ListMeters(c.Request.Context(), c.Param("household_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meters": meters})
}

func (s *Service) HandleCreateMeter(c *gin.Context) {
	var m Meter
	if err := c.ShouldBindJSON(&m); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := s.CreateMeter(c.Request.Context(), c.Param("household_id"), m)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Service) HandleDeleteMeter(c *gin.Context) {
	if err := s.DeleteMeter(c.Request.Context(), c.Param("meter_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) HandleListPrices(c *gin.Context) {
	prices, err := s.ListPrices(c.Request.Context(), c.Param("meter_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

func (s *Service) HandleSetPrice(c *gin.Context) {
	var p Price
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}

	saved, err := s.SetPrice(c.Request.Context(), c.Param("meter_id"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// HandleCostReport handles GET /api/v1/meters/:meter_id/cost
// Query parameters: start, end (relative expressions or timestamps)
func (s *Service) HandleCostReport(c *gin.Context) {
	var params struct {
		Start string `form:"start"`
		End   string `form:"end"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		writeBindError(c, err)
		return
	}
	if params.Start == "" {
		params.Start = "-1y"
	}
	if params.End == "" {
		params.End = "now()"
	}

	report, err := s.CostReport(c.Request.Context(), c.Param("meter_id"), params.Start, params.End)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
		ErrorType: httperr.HttpInvalidJsonError,
		Message:   "Invalid request body",
		Details:   err.Error(),
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid request",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Resource not found",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Request failed",
			Details:   err.Error(),
		})
	}
}
