package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/warungku/backend-go/internal/repository"
	"github.com/warungku/backend-go/internal/service"
)

// Horizon bounds for forecast requests.
const (
	defaultForecastDays = 7
	maxForecastDays     = 90
)

type PredictionHandler struct {
	service *service.PredictionService
}

func NewPredictionHandler(service *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: service}
}

func (h *PredictionHandler) GetStockAlerts(c *gin.Context) {
	alerts, err := h.service.StockAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stock alerts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

func (h *PredictionHandler) GetRestockSuggestions(c *gin.Context) {
	suggestions, err := h.service.RestockSuggestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute restock suggestions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"total":       len(suggestions),
	})
}

func (h *PredictionHandler) GetSalesForecast(c *gin.Context) {
	forecast, err := h.service.OverallForecast(c.Request.Context(), h.parseDays(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute sales forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (h *PredictionHandler) GetProductSalesForecast(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	forecast, err := h.service.ProductForecast(c.Request.Context(), productID, h.parseDays(c))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute product forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (h *PredictionHandler) GetWeeklyTrends(c *gin.Context) {
	pattern, err := h.service.WeeklyTrends(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute weekly trends", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pattern)
}

func (h *PredictionHandler) parseDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultForecastDays)))
	if err != nil || days <= 0 {
		return defaultForecastDays
	}
	if days > maxForecastDays {
		return maxForecastDays
	}
	return days
}
