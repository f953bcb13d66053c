package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// statusFor maps a service error onto an HTTP status and a stable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidPage):
		return http.StatusBadRequest, "invalid_page"
	case errors.Is(err, domain.ErrNoResults):
		return http.StatusBadRequest, "no_results"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, "listing_not_found"
	case errors.Is(err, domain.ErrSellerNotInCart):
		return http.StatusNotFound, "seller_not_in_cart"
	case errors.Is(err, domain.ErrRemoteCall):
		return http.StatusBadGateway, "upstream_error"
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusServiceUnavailable, "not_configured"
	case errors.Is(err, domain.ErrDecode), errors.Is(err, domain.ErrTemplateStructure):
		return http.StatusInternalServerError, "document_error"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "session_busy"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		if status == http.StatusInternalServerError {
			respondError(w, status, code, "internal server error")
			return
		}
	}
	respondError(w, status, code, err.Error())
}
