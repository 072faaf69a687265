package application

import (
	"context"
	"io"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

// Notifier delivers a plain-text message. Callers treat it as best effort.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventIndexer mirrors events into a secondary search index.
type EventIndexer interface {
	Index(ctx context.Context, e *entity.Event) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.EventSummary, error)
}

// ImageStore persists event images and returns their public URL.
type ImageStore interface {
	PutEventImage(ctx context.Context, eventID, filename, contentType string, r io.Reader) (string, error)
	DeleteEventImage(ctx context.Context, url string) error
}

// ProfileCache holds rendered organizer profiles keyed by the organizer's user id.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*entity.OrganizerPublicProfile, bool)
	Set(ctx context.Context, userID string, p *entity.OrganizerPublicProfile)
	Invalidate(ctx context.Context, userID string)
}
