package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/quocanhngo/pushreg/internal/model"
	"github.com/quocanhngo/pushreg/internal/service"
)

const (
	errMissingFields  = "Missing required fields: deviceId, token, platform"
	errInvalidBody    = "Invalid request body"
	errRegisterFailed = "Failed to register push notification token"
)

// NotificationHandler handles push notification endpoints
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Register godoc
// @Summary Register a device push token
// @Description Creates or updates the push token stored for a device
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body model.RegisterTokenRequest true "Register token request"
// @Success 200 {object} model.RegisterTokenResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /notifications/register [post]
func (h *NotificationHandler) Register(c *gin.Context) {
	var req model.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: errMissingFields})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: errInvalidBody})
		return
	}

	token, err := h.notificationService.RegisterToken(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: errMissingFields})
			return
		}
		log.Printf("❌ Failed to register push token: %v", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: errRegisterFailed})
		return
	}

	c.JSON(http.StatusOK, model.RegisterTokenResponse{Success: true, Data: *token})
}
