package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/application"
	"github.com/velizario/gemini-children-events-be/pkg/response"
)

type ReviewHandler struct {
	Reviews *application.ReviewService
	Logger  *logrus.Logger
}

func NewReviewHandler(reviews *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Logger: logger}
}

type createReviewRequest struct {
	OrganizerProfileID string  `json:"organizerProfileId" binding:"required"`
	EventID            *string `json:"eventId" binding:"omitempty,min=1"`
	Rating             int     `json:"rating" binding:"required,rating"`
	Comment            *string `json:"comment" binding:"omitempty,max=2000"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	rv, err := h.Reviews.AddReview(c.Request.Context(), p, application.ReviewInput{
		OrganizerProfileID: req.OrganizerProfileID,
		EventID:            req.EventID,
		Rating:             req.Rating,
		Comment:            req.Comment,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, rv, "review created", nil)
}
