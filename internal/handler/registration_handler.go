package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uncodesociety/signup-api/internal/dto"
	"github.com/uncodesociety/signup-api/internal/registration"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
	"github.com/uncodesociety/signup-api/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, req registration.Submission) error
}

// RegistrationHandler receives sign-ups and forwards them to the administrator.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(service registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Register godoc
// @Summary Submit a lesson registration
// @Description Validates the registration and e-mails the administrator. Nothing is stored.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body models.RegistrationNotification true "Registration"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req registration.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	if err := h.service.Register(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RegistrationResponse{Success: true})
}
