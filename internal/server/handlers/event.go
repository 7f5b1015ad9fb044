package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"sharecal/internal/repository"
	"sharecal/internal/storage"
)

// EventHandler serves the event read endpoints
type EventHandler struct {
	logger *slog.Logger
	repo   *repository.Repository
}

// NewEventHandler creates a new handler for event lookups
func NewEventHandler(logger *slog.Logger, repo *repository.Repository) *EventHandler {
	return &EventHandler{
		logger: logger,
		repo:   repo,
	}
}

// Get handles GET /api/v1/event/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		sendError(h.logger, w, "invalid event id", http.StatusBadRequest)
		return
	}

	event, err := h.repo.Events.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			sendError(h.logger, w, "event not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get event", slog.Int64("event_id", id), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, eventResponse(event), http.StatusOK)
}
