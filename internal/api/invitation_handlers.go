package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvasko/gatherly/internal/middleware"
)

type inviteRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	if err := h.members.Invite(ctx, callerID, eventID, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	if err := h.members.AcceptInvitation(ctx, eventID, callerID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) declineInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	if err := h.members.DeclineInvitation(ctx, eventID, callerID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	userID := chi.URLParam(r, "userID")
	callerID := middleware.GetUserID(ctx)

	if err := h.members.RemoveMember(ctx, callerID, eventID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)

	events, err := h.queries.ListPendingInvitations(ctx, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

// watchInvitations streams the caller's pending invitations as
// server-sent events. Every change to the underlying set pushes the
// complete current list, so the client replaces its view wholesale.
func (h *Handler) watchInvitations(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)

	updates, cancel, err := h.queries.WatchPendingInvitations(ctx, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for events := range updates {
		payload, err := json.Marshal(toEventResponses(events))
		if err != nil {
			slog.Error("failed to encode invitation update", "error", err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}
