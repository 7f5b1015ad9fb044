package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"sharecal/internal/models"
	"sharecal/pkg/api"
)

// sendJSON writes v as a JSON response with the given status
func sendJSON(logger *slog.Logger, w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// sendError writes an api.ErrorResponse with the given status
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, status int) {
	sendJSON(logger, w, api.ErrorResponse{Error: message}, status)
}

// pathID extracts an integer {id} path value
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func userResponse(u *models.User) api.UserResponse {
	return api.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func eventResponse(e *models.Event) api.EventResponse {
	return api.EventResponse{
		ID:      e.ID,
		Title:   e.Title,
		Month:   e.Month,
		Day:     e.Day,
		Year:    e.Year,
		Notes:   e.Notes,
		Private: e.Private,
	}
}
