package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/ecarponi/obsbook/internal/service/scheduler"
	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	service scheduler.SchedulerUseCase
	slots   repository.SlotRepository
}

type confirmSlotRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	MaxBookings int    `json:"max_bookings"`
}

type slotResponse struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	MaxBookings     int      `json:"max_bookings"`
	Available       bool     `json:"available"`
	WeatherRating   *float64 `json:"weather_rating"`
	WeatherWarning  bool     `json:"weather_warning"`
	WeatherForecast bool     `json:"weather_forecast"`
}

func NewSlotHandler(service scheduler.SchedulerUseCase, slots repository.SlotRepository) *SlotHandler {
	return &SlotHandler{service: service, slots: slots}
}

func (h *SlotHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *SlotHandler) list(c *gin.Context) {
	slots, err := h.slots.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list slots"})
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *SlotHandler) create(c *gin.Context) {
	h.confirm(c, 0)
}

func (h *SlotHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}
	h.confirm(c, id)
}

func (h *SlotHandler) confirm(c *gin.Context, slotID int64) {
	var req confirmSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.ConfirmSlot(c.Request.Context(), scheduler.SlotInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		MaxBookings: req.MaxBookings,
	}, slotID)

	status := http.StatusOK
	if slotID == 0 {
		status = http.StatusCreated
	}
	c.JSON(resultStatus(result.OK, status), resultResponse{OK: result.OK, Message: result.Message})
}

func (h *SlotHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}

	result := h.service.DeleteSlot(c.Request.Context(), id)
	c.JSON(resultStatus(result.OK, http.StatusOK), resultResponse{OK: result.OK, Message: result.Message})
}

func toSlotResponse(s domain.Slot) slotResponse {
	return slotResponse{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		StartTime:       s.StartTime.Format(time.RFC3339),
		EndTime:         s.EndTime.Format(time.RFC3339),
		MaxBookings:     s.MaxBookings,
		Available:       s.Available,
		WeatherRating:   s.WeatherRating,
		WeatherWarning:  s.WeatherWarning,
		WeatherForecast: s.WeatherForecast,
	}
}
