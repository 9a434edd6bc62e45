package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/findnest/findnest/internal/model"
)

// errorBody is the error response shape the dashboard expects.
type errorBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Success: false, StatusCode: status, Message: message})
}

// respondError is the single place domain errors become HTTP responses.
// Store errors are logged server-side and generalized to the caller.
func respondError(w http.ResponseWriter, err error) {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case model.KindValidation:
			jsonError(w, http.StatusBadRequest, domainErr.Message)
		case model.KindPermission:
			jsonError(w, http.StatusForbidden, domainErr.Message)
		case model.KindNotFound:
			jsonError(w, http.StatusNotFound, domainErr.Message)
		default:
			slog.Error("store failure", "error", domainErr.Cause)
			jsonError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	slog.Error("unclassified error", "error", err)
	jsonError(w, http.StatusInternalServerError, "Server error")
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
