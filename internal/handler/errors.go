package handler

import (
	"errors"
	"net/http"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/response"
	"github.com/ahmadqo/campus-console/internal/service"
)

// statusFor maps a failed call to the status the console answers with.
// Backend 4xx pass through; backend 5xx and transport failures become 502.
func statusFor(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, resource.ErrUnknownResource), errors.Is(err, service.ErrUnknownSlot):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, apiclient.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the operator-facing text: the backend's own message when
// it sent one, the local error for console-side rejections, else fallback.
func messageFor(err error, fallback string) string {
	switch {
	case errors.Is(err, resource.ErrUnknownResource),
		errors.Is(err, service.ErrUnknownSlot),
		errors.Is(err, service.ErrUnsupportedMedia),
		errors.Is(err, service.ErrFileTooLarge):
		return err.Error()
	}
	return apiclient.ErrorMessage(err, fallback)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status >= 500 {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
	}
	response.Fail(w, status, messageFor(err, fallback))
}
