package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/policy"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

const (
	notifyTimeout = 10 * time.Second
	// EventDateLayout renders dates in confirmation mail.
	EventDateLayout = "Monday, January 2, 2006 at 3:04 PM"
)

// RegistrationService is the registration ledger.
type RegistrationService struct {
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Notifier      Notifier
	BrandName     string
	Logger        *logrus.Logger
}

// NewRegistrationService wires the ledger. notifier may be nil.
func NewRegistrationService(events repository.EventRepository, regs repository.RegistrationRepository, notifier Notifier, brandName string, logger *logrus.Logger) *RegistrationService {
	if brandName == "" {
		brandName = "KidzEvents"
	}
	return &RegistrationService{
		Events:        events,
		Registrations: regs,
		Notifier:      notifier,
		BrandName:     brandName,
		Logger:        logger,
	}
}

// Register signs p up for the event. A duplicate is detected only by the storage
// constraint, so concurrent calls for the same pair yield exactly one success.
func (s *RegistrationService) Register(ctx context.Context, p entity.Principal, eventID string) (*entity.RegistrationWithEvent, error) {
	if err := policy.Register(p).Err(); err != nil {
		return nil, err
	}
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event %s not found", eventID)
	}

	reg := &entity.Registration{UserID: p.ID, EventID: ev.ID}
	if err := s.Registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			registrationStats.Add("duplicate", 1)
			return nil, apperr.Conflict("you are already registered for this event")
		}
		return nil, notFoundOr(err, "event %s not found", eventID)
	}
	registrationStats.Add("created", 1)

	s.notify(ctx, p, ev)

	return &entity.RegistrationWithEvent{Registration: *reg, Event: ev.Summary()}, nil
}

// notify runs after the registration is durable. Its outcome is only logged and counted.
func (s *RegistrationService) notify(ctx context.Context, p entity.Principal, ev *entity.Event) {
	fields := logrus.Fields{"user_id": p.ID, "event_id": ev.ID, "to": p.Email}
	if s.Notifier == nil || p.Email == "" {
		notificationStats.Add("skipped", 1)
		if s.Logger != nil {
			s.Logger.WithFields(fields).Debug("registration confirmation skipped")
		}
		return
	}

	subject, body := ConfirmationMessage(s.BrandName, p.FirstName, ev)
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.Notifier.Send(c, p.Email, subject, body); err != nil {
		notificationStats.Add("failed", 1)
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(fields).Warn("registration confirmation failed")
		}
		return
	}
	notificationStats.Add("sent", 1)
	if s.Logger != nil {
		s.Logger.WithFields(fields).Info("registration confirmation sent")
	}
}

// ConfirmationMessage builds the subject and plain-text body of a registration confirmation.
func ConfirmationMessage(brand, firstName string, ev *entity.Event) (string, string) {
	name := firstName
	if name == "" {
		name = "there"
	}
	subject := "Registration Confirmed for " + ev.Title
	body := fmt.Sprintf("Hi %s,\n\nYou have successfully registered for the event: %s.\n\nDate: %s\nLocation: %s\n\nWe look forward to seeing you there!\n\nBest regards,\nThe %s Team",
		name, ev.Title, ev.Date.Format(EventDateLayout), ev.Location, brand)
	return subject, body
}

// GetParticipants lists an event's registrations for its organizer or an admin.
func (s *RegistrationService) GetParticipants(ctx context.Context, p entity.Principal, eventID string) ([]entity.Participant, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event %s not found", eventID)
	}
	if err := policy.ViewParticipants(p, ev).Err(); err != nil {
		return nil, err
	}
	out, err := s.Registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *RegistrationService) GetMyRegistrations(ctx context.Context, userID string) ([]entity.RegistrationWithEvent, error) {
	out, err := s.Registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
