package api

import (
	"net/http"

	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/ecarponi/obsbook/internal/service/scheduler"
	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	service scheduler.SchedulerUseCase
	configs repository.ConfigurationRepository
}

type configurationPayload struct {
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	Timezone            string  `json:"timezone"`
	WeatherThreshold    int     `json:"weather_threshold"`
	MaxBookingsPerEvent int     `json:"max_bookings_per_event"`
	DefaultOpeningTime  string  `json:"default_opening_time"`
	DefaultClosingTime  string  `json:"default_closing_time"`
}

func NewConfigHandler(service scheduler.SchedulerUseCase, configs repository.ConfigurationRepository) *ConfigHandler {
	return &ConfigHandler{service: service, configs: configs}
}

func (h *ConfigHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.get)
	router.PUT("/", h.update)
}

func (h *ConfigHandler) get(c *gin.Context) {
	cfg, err := h.configs.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load configuration"})
		return
	}

	c.JSON(http.StatusOK, configurationPayload{
		Latitude:            cfg.Latitude,
		Longitude:           cfg.Longitude,
		Timezone:            cfg.Timezone,
		WeatherThreshold:    cfg.WeatherThreshold,
		MaxBookingsPerEvent: cfg.MaxBookingsPerEvent,
		DefaultOpeningTime:  cfg.DefaultOpeningTime,
		DefaultClosingTime:  cfg.DefaultClosingTime,
	})
}

func (h *ConfigHandler) update(c *gin.Context) {
	var req configurationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.service.UpdateConfiguration(c.Request.Context(), scheduler.ConfigurationUpdate{
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Timezone:            req.Timezone,
		WeatherThreshold:    req.WeatherThreshold,
		MaxBookingsPerEvent: req.MaxBookingsPerEvent,
		DefaultOpeningTime:  req.DefaultOpeningTime,
		DefaultClosingTime:  req.DefaultClosingTime,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, configurationPayload{
		Latitude:            cfg.Latitude,
		Longitude:           cfg.Longitude,
		Timezone:            cfg.Timezone,
		WeatherThreshold:    cfg.WeatherThreshold,
		MaxBookingsPerEvent: cfg.MaxBookingsPerEvent,
		DefaultOpeningTime:  cfg.DefaultOpeningTime,
		DefaultClosingTime:  cfg.DefaultClosingTime,
	})
}
