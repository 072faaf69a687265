// Package policy holds the allowed-role and ownership rule of every guarded operation.
package policy

import (
	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denial into a Forbidden error.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Forbidden("%s", d.Reason)
}

func CreateEvent(p entity.Principal) Decision {
	if p.Role != entity.RoleOrganizer {
		return deny("only organizers can create events")
	}
	return allow()
}

func ownerOrAdmin(p entity.Principal, e *entity.Event) bool {
	return p.Role == entity.RoleAdmin || (p.ID != "" && p.ID == e.OrganizerID)
}

func UpdateEvent(p entity.Principal, e *entity.Event) Decision {
	if !ownerOrAdmin(p, e) {
		return deny("you are not authorized to update this event")
	}
	return allow()
}

func DeleteEvent(p entity.Principal, e *entity.Event) Decision {
	if !ownerOrAdmin(p, e) {
		return deny("you are not authorized to delete this event")
	}
	return allow()
}

func ViewParticipants(p entity.Principal, e *entity.Event) Decision {
	if !ownerOrAdmin(p, e) {
		return deny("you are not authorized to view participants for this event")
	}
	return allow()
}

func Register(p entity.Principal) Decision {
	if p.Role != entity.RoleParent {
		return deny("only parents can register for events")
	}
	return allow()
}

func AddReview(p entity.Principal) Decision {
	if p.Role != entity.RoleParent {
		return deny("only parents can write reviews")
	}
	return allow()
}
