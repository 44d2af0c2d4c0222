package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opam/internal/services"
)

// ForecastHandler handles spend forecast requests.
type ForecastHandler struct {
	forecastService services.ForecastServicer
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastService services.ForecastServicer) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// GetForecast returns the user's next-period spend projection
// @Summary     Get spend forecast
// @Description Project next-period spend from the user's monthly history. With fewer than two months of history the trend is "insufficient_data" and prediction and confidence are zero.
// @Tags        forecast
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ForecastResult "Forecast with history and category breakdown"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecast [get]
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.forecastService.Forecast(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
