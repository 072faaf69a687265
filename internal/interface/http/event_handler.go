package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/application"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/pkg/response"
)

// MaxImageSize caps event image uploads.
const MaxImageSize = 5 << 20

type EventHandler struct {
	Events        *application.EventService
	Registrations *application.RegistrationService
	Logger        *logrus.Logger
}

func NewEventHandler(events *application.EventService, regs *application.RegistrationService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Events: events, Registrations: regs, Logger: logger}
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Category    *string   `json:"category"`
	AgeGroup    *string   `json:"ageGroup"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
}

type updateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description" binding:"omitempty,min=1"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location" binding:"omitempty,min=1"`
	Category    *string    `json:"category"`
	AgeGroup    *string    `json:"ageGroup"`
	Price       *float64   `json:"price" binding:"omitempty,gte=0"`
}

func (r updateEventRequest) patch() entity.EventPatch {
	return entity.EventPatch{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Location:    r.Location,
		Category:    r.Category,
		AgeGroup:    r.AgeGroup,
		Price:       r.Price,
	}
}

type listEventsQuery struct {
	Category   string `form:"category"`
	AgeGroup   string `form:"ageGroup"`
	StartDate  string `form:"startDate"`
	SearchTerm string `form:"searchTerm"`
}

// parseStartDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseStartDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func (h *EventHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	ev, err := h.Events.CreateEvent(c.Request.Context(), p, application.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Category:    req.Category,
		AgeGroup:    req.AgeGroup,
		Price:       req.Price,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ev, "event created", nil)
}

func (h *EventHandler) List(c *gin.Context) {
	var q listEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	start, ok := parseStartDate(q.StartDate)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"startDate": "must be an ISO 8601 date"})
		return
	}
	items, err := h.Events.ListEvents(c.Request.Context(), entity.EventFilter{
		Category:   strings.TrimSpace(q.Category),
		AgeGroup:   strings.TrimSpace(q.AgeGroup),
		StartDate:  start,
		SearchTerm: strings.TrimSpace(q.SearchTerm),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, items, "events", map[string]any{"count": len(items)})
}

func (h *EventHandler) Search(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"size": "must be a positive integer"})
			return
		}
		size = n
	}
	hits, err := h.Events.SearchEvents(c.Request.Context(), strings.TrimSpace(c.Query("q")), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *EventHandler) MyEvents(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, err := h.Events.ListEventsByOrganizer(c.Request.Context(), p.ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, items, "my events", nil)
}

func (h *EventHandler) MyRegistrations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	regs, err := h.Registrations.GetMyRegistrations(c.Request.Context(), p.ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, regs, "my registrations", nil)
}

func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.Events.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ev, "event", nil)
}

func (h *EventHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	ev, err := h.Events.UpdateEvent(c.Request.Context(), p, c.Param("id"), req.patch())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ev, "event updated", nil)
}

func (h *EventHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Events.DeleteEvent(c.Request.Context(), p, id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "event deleted", nil)
}

func (h *EventHandler) UploadImage(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize+(1<<20))
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	if fh.Size > MaxImageSize {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", map[string]string{"image": "must be at most 5MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "unreadable file"})
		return
	}
	defer f.Close()

	ev, err := h.Events.UploadEventImage(c.Request.Context(), p, c.Param("id"), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ev, "image uploaded", nil)
}

func (h *EventHandler) Register(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	reg, err := h.Registrations.Register(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, reg, "registered", nil)
}

func (h *EventHandler) Participants(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := h.Registrations.GetParticipants(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "participants", map[string]any{"count": len(list)})
}
