package server

import (
	"net/http"

	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/observability"
)

type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidDepth, errs.ErrCodeInvalidLevel,
		errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidVizType,
		errs.ErrCodeInvalidPalette:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeSessionNotFound, errs.ErrCodeNoHit:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func notFound(path string) error {
	return errs.New(errs.ErrCodeNotFound, "no route for %s", path)
}

// writeError replies with a JSON error body. Server-side failures are
// logged and reported to the HTTP hooks; client errors are not.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	status := statusFor(code)

	msg := errs.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
