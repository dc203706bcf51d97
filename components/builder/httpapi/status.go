package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/components/builder/commands"
)

// StatusFor maps builder errors onto HTTP status codes.
func StatusFor(err error) int {
	var remote builder.RemoteError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, builder.ErrUnknownLayout), errors.Is(err, builder.ErrUnknownElement):
		return http.StatusNotFound
	case errors.Is(err, builder.ErrLastLayout), errors.Is(err, builder.ErrDuplicateElement),
		errors.Is(err, builder.ErrLayoutChanged):
		return http.StatusConflict
	case errors.Is(err, builder.ErrBlankLayoutName),
		errors.Is(err, builder.ErrInvalidElement),
		errors.Is(err, builder.ErrMissingContent),
		errors.Is(err, builder.ErrNoTypeSelected),
		errors.Is(err, builder.ErrNoCurrentLayout),
		errors.Is(err, builder.ErrInvalidPlacement),
		errors.Is(err, commands.ErrConfirmationRequired):
		return http.StatusBadRequest
	case errors.As(err, &remote):
		return http.StatusBadGateway
	case errors.Is(err, errNotConfigured), errors.Is(err, builder.ErrMissingAPI):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
