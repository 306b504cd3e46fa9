package server

import (
	"encoding/json"
	"errors"
	"net/http"

	rrerrors "github.com/matzehuels/rrgraph/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    rrerrors.Code `json:"code"`
	Message string        `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code rrerrors.Code) int {
	switch code {
	case rrerrors.ErrCodeInvalidInput, rrerrors.ErrCodeInvalidSector, rrerrors.ErrCodeInvalidFormat,
		rrerrors.ErrCodeInvalidStyle, rrerrors.ErrCodeInvalidLayout, rrerrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case rrerrors.ErrCodeInsufficientData:
		return http.StatusUnprocessableEntity
	case rrerrors.ErrCodeNotFound, rrerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case rrerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// toDetail classifies err. Errors without a code are internal and their
// text is not exposed.
func toDetail(err error) (int, errorDetail) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge, errorDetail{
			Code:    rrerrors.ErrCodeInvalidInput,
			Message: "request body too large",
		}
	}
	code := rrerrors.GetCode(err)
	if code == "" {
		return http.StatusInternalServerError, errorDetail{
			Code:    rrerrors.ErrCodeInternal,
			Message: "internal error",
		}
	}
	return statusFor(code), errorDetail{Code: code, Message: rrerrors.UserMessage(err)}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := toDetail(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "code", detail.Code, "err", err)
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
