package api

import (
	"net/http"

	"github.com/ecarponi/obsbook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

// bookingRequest identifies the caller and the slot. The user id arrives
// pre-authenticated from the web layer.
type bookingRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	SlotID int64 `json:"slot_id" binding:"required"`
}

type resultResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.book)
	router.DELETE("/", h.cancel)
}

func (h *BookingHandler) book(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.Book(c.Request.Context(), req.UserID, req.SlotID)
	c.JSON(resultStatus(result.OK, http.StatusCreated), resultResponse{OK: result.OK, Message: result.Message})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.Cancel(c.Request.Context(), req.UserID, req.SlotID)
	c.JSON(resultStatus(result.OK, http.StatusOK), resultResponse{OK: result.OK, Message: result.Message})
}

func resultStatus(ok bool, success int) int {
	if ok {
		return success
	}
	return http.StatusConflict
}
