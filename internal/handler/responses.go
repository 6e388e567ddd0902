package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceError converts service errors to an HTTP status and a message
// that is safe to show to API clients.
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound, ErrMsgGroupNotFound
	case errors.Is(err, domain.ErrInvalidGroupID):
		return http.StatusBadRequest, ErrMsgInvalidGroupID
	case errors.Is(err, domain.ErrInvalidRankType):
		return http.StatusBadRequest, ErrMsgInvalidRankType
	case errors.Is(err, domain.ErrMemberFetchFailed):
		return http.StatusBadGateway, ErrMsgRefreshFailed
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	status, message := mapServiceError(err)
	respondError(w, status, message)
}
