package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"sharecal/internal/repository"
	"sharecal/internal/session"
	"sharecal/internal/storage"
	"sharecal/pkg/api"
)

// ShareHandler serves calendars through their public share token. Responses
// never contain private events.
type ShareHandler struct {
	logger *slog.Logger
	repo   *repository.Repository
}

// NewShareHandler creates a new handler for share-link access
func NewShareHandler(logger *slog.Logger, repo *repository.Repository) *ShareHandler {
	return &ShareHandler{
		logger: logger,
		repo:   repo,
	}
}

// Events handles GET /api/v1/share/{token}/events[?month=N]
func (h *ShareHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.PathValue("token")
	if token == "" {
		sendError(h.logger, w, "share token is required", http.StatusBadRequest)
		return
	}

	share, err := session.OpenShare(ctx, h.repo, token)
	if err != nil {
		if errors.Is(err, storage.ErrCalendarNotFound) {
			sendError(h.logger, w, "calendar not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to open share", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	events := share.Events()
	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		month, err := strconv.Atoi(monthParam)
		if err != nil || month < 1 || month > 12 {
			sendError(h.logger, w, "invalid month", http.StatusBadRequest)
			return
		}
		events = share.MonthEvents(month)
	}

	out := make([]api.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse(e))
	}

	sendJSON(h.logger, w, out, http.StatusOK)
}
