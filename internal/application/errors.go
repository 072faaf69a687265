package application

import (
	"errors"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

// notFoundOr maps ErrNotFound to a NotFound with msg and anything else to Internal.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(format, args...)
	}
	return apperr.Internal(err)
}

func invalid(err error) error {
	return apperr.BadRequest("%s", err.Error())
}
