package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/application"
	"github.com/velizario/gemini-children-events-be/pkg/response"
)

type OrganizerHandler struct {
	Organizers *application.OrganizerService
	Logger     *logrus.Logger
}

func NewOrganizerHandler(organizers *application.OrganizerService, logger *logrus.Logger) *OrganizerHandler {
	return &OrganizerHandler{Organizers: organizers, Logger: logger}
}

func (h *OrganizerHandler) Profile(c *gin.Context) {
	prof, err := h.Organizers.GetOrganizerProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, prof, "organizer profile", nil)
}
