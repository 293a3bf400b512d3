package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvasko/gatherly/internal/middleware"
	"github.com/nvasko/gatherly/internal/models"
	"github.com/nvasko/gatherly/internal/service"
)

type createEventRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	ThemeColor     string   `json:"themeColor"`
	Location       string   `json:"location"`
	Budget         float64  `json:"budget"`
	InvitedUserIDs []string `json:"invitedUserIds"`
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	callerID := middleware.GetUserID(r.Context())
	event, err := h.members.CreateEvent(r.Context(), callerID, service.CreateEventRequest{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Time:           req.Time,
		ThemeColor:     req.ThemeColor,
		Location:       req.Location,
		Budget:         req.Budget,
		InvitedUserIDs: req.InvitedUserIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

// listEvents returns the caller's visible events. The optional ?q=
// parameter narrows by title substring, and ?filter=created restricts
// to events the caller organizes.
func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)

	var events []models.Event
	var err error
	switch {
	case r.URL.Query().Get("filter") == "created":
		events, err = h.queries.ListEventsCreatedBy(ctx, callerID)
	default:
		events, err = h.queries.SearchEventsByTitle(ctx, callerID, r.URL.Query().Get("q"))
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	visible, err := h.queries.CanView(ctx, eventID, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !visible {
		// Hidden events look the same as missing ones.
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	event, err := h.members.GetEvent(ctx, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

type updateEventRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	ThemeColor  string  `json:"themeColor"`
	Location    string  `json:"location"`
	Budget      float64 `json:"budget"`
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	err := h.members.UpdateEvent(ctx, callerID, eventID, service.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		ThemeColor:  req.ThemeColor,
		Location:    req.Location,
		Budget:      req.Budget,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	event, err := h.members.GetEvent(ctx, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	if err := h.members.DeleteEvent(ctx, callerID, eventID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type resolveNamesRequest struct {
	UserIDs []string `json:"userIds"`
}

func (h *Handler) resolveDisplayNames(w http.ResponseWriter, r *http.Request) {
	var req resolveNamesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	names, err := h.queries.ResolveDisplayNames(r.Context(), req.UserIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}
