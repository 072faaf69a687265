package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/policy"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

const indexTimeout = 3 * time.Second

// EventService is the event catalog.
type EventService struct {
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Index         EventIndexer
	Images        ImageStore
	Logger        *logrus.Logger
}

// NewEventService wires the catalog. index and images may be nil.
func NewEventService(events repository.EventRepository, regs repository.RegistrationRepository, index EventIndexer, images ImageStore, logger *logrus.Logger) *EventService {
	return &EventService{
		Events:        events,
		Registrations: regs,
		Index:         index,
		Images:        images,
		Logger:        logger,
	}
}

type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Category    *string
	AgeGroup    *string
	Price       *float64
}

func (s *EventService) CreateEvent(ctx context.Context, p entity.Principal, in EventInput) (*entity.EventDetail, error) {
	if err := policy.CreateEvent(p).Err(); err != nil {
		return nil, err
	}
	e := &entity.Event{
		OrganizerID: p.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		Category:    in.Category,
		AgeGroup:    in.AgeGroup,
		Price:       in.Price,
	}
	if err := e.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.Events.Create(ctx, e); err != nil {
		return nil, notFoundOr(err, "organizer %s not found", p.ID)
	}
	s.reindex(ctx, e)
	return s.GetEvent(ctx, e.ID)
}

func (s *EventService) ListEvents(ctx context.Context, f entity.EventFilter) ([]entity.EventListItem, error) {
	items, err := s.Events.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *EventService) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]entity.EventWithCount, error) {
	items, err := s.Events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*entity.EventDetail, error) {
	d, err := s.Events.GetDetail(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "event %s not found", id)
	}
	return d, nil
}

// load fetches an event for a guarded operation.
func (s *EventService) load(ctx context.Context, id string) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "event %s not found", id)
	}
	return e, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, p entity.Principal, id string, patch entity.EventPatch) (*entity.EventDetail, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.UpdateEvent(p, e).Err(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.GetEvent(ctx, id)
	}
	patch.Apply(e)
	if err := e.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.Events.Update(ctx, e); err != nil {
		return nil, notFoundOr(err, "event %s not found", id)
	}
	s.reindex(ctx, e)
	return s.GetEvent(ctx, id)
}

var errActiveRegistrations = apperr.Conflict("cannot delete: active registrations exist")

func (s *EventService) DeleteEvent(ctx context.Context, p entity.Principal, id string) error {
	e, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.DeleteEvent(p, e).Err(); err != nil {
		return err
	}
	if err := s.ensureNoRegistrations(ctx, id); err != nil {
		return err
	}
	if err := s.Events.Delete(ctx, id); err != nil {
		// a registration slipped in after the count
		if errors.Is(err, repository.ErrHasDependents) {
			return errActiveRegistrations
		}
		return notFoundOr(err, "event %s not found", id)
	}
	s.unindex(ctx, id)
	s.dropImage(ctx, id, e.ImageURL)
	return nil
}

// ensureNoRegistrations is the delete precondition: an event with dependents is never removed.
func (s *EventService) ensureNoRegistrations(ctx context.Context, eventID string) error {
	n, err := s.Registrations.CountByEvent(ctx, eventID)
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return errActiveRegistrations
	}
	return nil
}

// UploadEventImage stores an image for the event and records its URL.
func (s *EventService) UploadEventImage(ctx context.Context, p entity.Principal, id, filename, contentType string, r io.Reader) (*entity.EventDetail, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.UpdateEvent(p, e).Err(); err != nil {
		return nil, err
	}
	if s.Images == nil {
		return nil, apperr.Unavailable("image storage is not configured")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, apperr.BadRequest("file must be an image")
	}
	url, err := s.Images.PutEventImage(ctx, e.ID, filename, contentType, r)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	// only the image column is written, so a concurrent patch survives
	previous, err := s.Events.SetImageURL(ctx, e.ID, url)
	if err != nil {
		s.dropImage(ctx, id, &url)
		return nil, notFoundOr(err, "event %s not found", id)
	}
	s.dropImage(ctx, id, previous)
	return s.GetEvent(ctx, id)
}

// SearchEvents queries the search index. Without one it returns no hits.
func (s *EventService) SearchEvents(ctx context.Context, q string, size int) ([]entity.EventSummary, error) {
	if s.Index == nil {
		return []entity.EventSummary{}, nil
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return hits, nil
}

func (s *EventService) reindex(ctx context.Context, e *entity.Event) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	defer cancel()
	if err := s.Index.Index(c, e); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event_id", e.ID).Warn("event index failed")
	}
}

func (s *EventService) unindex(ctx context.Context, id string) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	defer cancel()
	if err := s.Index.Remove(c, id); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event_id", id).Warn("event unindex failed")
	}
}

// dropImage deletes a stored image; failures only leave an orphaned object.
func (s *EventService) dropImage(ctx context.Context, eventID string, url *string) {
	if s.Images == nil || url == nil || *url == "" {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	defer cancel()
	if err := s.Images.DeleteEventImage(c, *url); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event_id", eventID).Warn("event image delete failed")
	}
}
