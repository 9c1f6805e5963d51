package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-vault/internal/geometry"
	"github.com/codyseavey/card-vault/internal/models"
)

// Default chart dimensions for clients that only send axis values.
const (
	defaultCenter   = 150.0
	defaultRadius   = 120.0
	defaultMaxValue = 10.0
)

type ChartHandler struct{}

func NewChartHandler() *ChartHandler {
	return &ChartHandler{}
}

type radarRequest struct {
	Axes     []models.Subgrade `json:"axes" binding:"required"`
	MaxValue float64           `json:"max_value"`
	CenterX  *float64          `json:"center_x"`
	CenterY  *float64          `json:"center_y"`
	Radius   *float64          `json:"radius"`
}

// Radar computes radar-chart geometry for a set of quality axes.
func (h *ChartHandler) Radar(c *gin.Context) {
	var req radarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cx, cy, radius := defaultCenter, defaultCenter, defaultRadius
	if req.CenterX != nil {
		cx = *req.CenterX
	}
	if req.CenterY != nil {
		cy = *req.CenterY
	}
	if req.Radius != nil {
		radius = *req.Radius
	}
	maxValue := req.MaxValue
	if maxValue == 0 {
		maxValue = defaultMaxValue
	}

	chart, err := geometry.Radar(req.Axes, cx, cy, radius, maxValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, chart)
}
