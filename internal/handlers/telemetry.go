package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getSolarStatus godoc
// @Summary      Inverter snapshot with resolved grid status
// @Tags         telemetry
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  models.SolarSnapshot
// @Failure      502  {object}  errorResponse
// @Router       /api/v1/solar/status [get]
func (h *Handler) getSolarStatus(c *gin.Context) {
	snap, err := h.services.Solar.Snapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, "failed to fetch solar status", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// getSensors godoc
// @Summary      Temperature and humidity sensor readings
// @Tags         telemetry
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}   models.SensorReading
// @Failure      502  {object}  errorResponse
// @Router       /api/v1/sensors [get]
func (h *Handler) getSensors(c *gin.Context) {
	readings, err := h.services.Sensors.Readings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, "failed to fetch sensor readings", err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// getStove godoc
// @Summary      Wood-stove status
// @Tags         telemetry
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  models.StoveStatus
// @Failure      502  {object}  errorResponse
// @Router       /api/v1/stove [get]
func (h *Handler) getStove(c *gin.Context) {
	st, err := h.services.Stove.Status(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, "failed to fetch stove status", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// getWeather godoc
// @Summary      Daily weather forecast
// @Tags         telemetry
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}   models.ForecastDay
// @Failure      502  {object}  errorResponse
// @Router       /api/v1/weather [get]
func (h *Handler) getWeather(c *gin.Context) {
	days, err := h.services.Weather.Forecast(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, "failed to fetch forecast", err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// getLaundryAdvice godoc
// @Summary      Best laundry day for the coming week
// @Tags         telemetry
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  models.LaundryAdvice
// @Failure      502  {object}  errorResponse
// @Router       /api/v1/laundry [get]
func (h *Handler) getLaundryAdvice(c *gin.Context) {
	advice, err := h.services.Laundry.Advice(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, "failed to fetch laundry advice", err)
		return
	}
	c.JSON(http.StatusOK, advice)
}

// getDashboard godoc
// @Summary      Aggregated snapshot of every dashboard section
// @Description  Sections that fail upstream are reported in the errors map
// @Description  instead of failing the whole request.
// @Tags         telemetry
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  models.Dashboard
// @Router       /api/v1/dashboard [get]
func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.Snapshot(c.Request.Context()))
}
