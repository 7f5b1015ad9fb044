package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"sharecal/internal/repository"
	"sharecal/internal/storage"
	"sharecal/pkg/api"
)

// UserHandler serves the user read endpoints
type UserHandler struct {
	logger *slog.Logger
	repo   *repository.Repository
}

// NewUserHandler creates a new handler for user lookups
func NewUserHandler(logger *slog.Logger, repo *repository.Repository) *UserHandler {
	return &UserHandler{
		logger: logger,
		repo:   repo,
	}
}

// Get handles GET /api/v1/user/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		sendError(h.logger, w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.repo.Users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Int64("user_id", id), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, userResponse(user), http.StatusOK)
}

// Events handles GET /api/v1/user/{id}/events
// Lists all events on the user's calendar, private ones included; this
// surface sits behind the excluded HTTP auth layer, not the share link.
func (h *UserHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		sendError(h.logger, w, "invalid user id", http.StatusBadRequest)
		return
	}

	calendar, err := h.repo.Calendars.GetCalendarByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrCalendarNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get calendar", slog.Int64("user_id", id), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	events, err := h.repo.Events.ListEventsByCalendar(ctx, calendar.ID, nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list events", slog.Int64("calendar_id", calendar.ID), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]api.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse(e))
	}

	sendJSON(h.logger, w, out, http.StatusOK)
}
