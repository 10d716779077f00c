package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// invalidAPIKeyResponse sends a 401 Unauthorized response for a missing or unknown key
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.requestLogger(r), "request_failed", err,
		slog.String("path", r.URL.Path))
	api.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// unavailableResponse is sent while no feed has been loaded.
func (api *RestAPI) unavailableResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusServiceUnavailable, "schedule not loaded")
}

func (api *RestAPI) writeError(w http.ResponseWriter, r *http.Request, code int, text string) {
	response := errorResponse{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     1,
	}

	setJSONResponseType(&w)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.requestLogger(r).Error("failed to encode error response", "error", err, "code", code)
	}
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.requestLogger(r).Error("failed to encode validation error response", "error", err)
	}
}

// requestLogger returns the logger installed by the request logging middleware.
func (api *RestAPI) requestLogger(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context())
}
