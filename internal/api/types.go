package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nvasko/gatherly/internal/auth"
	"github.com/nvasko/gatherly/internal/models"
	"github.com/nvasko/gatherly/internal/service"
)

type eventResponse struct {
	ID             string          `json:"id"`
	CreatorID      string          `json:"creatorId"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Date           string          `json:"date,omitempty"`
	Time           string          `json:"time,omitempty"`
	ThemeColor     string          `json:"themeColor,omitempty"`
	Location       string          `json:"location,omitempty"`
	Budget         float64         `json:"budget"`
	Members        []string        `json:"members"`
	PendingInvites []string        `json:"pendingInvites"`
	Expenses       *expenseSummary `json:"expenses,omitempty"`
	CreatedAt      int64           `json:"createdAt"`
}

type expenseSummary struct {
	TotalCost     string `json:"totalCost"`
	CostPerPerson string `json:"costPerPerson"`
}

func toEventResponse(ev *models.Event) eventResponse {
	resp := eventResponse{
		ID:             ev.ID,
		CreatorID:      ev.CreatorID,
		Title:          ev.Title,
		Description:    ev.Description,
		Date:           ev.Date,
		Time:           ev.Time,
		ThemeColor:     ev.ThemeColor,
		Location:       ev.Location,
		Budget:         ev.Budget,
		Members:        ev.Members,
		PendingInvites: ev.PendingInvites,
		CreatedAt:      ev.CreatedAt,
	}
	if ev.ExpenseSummary.HasExpenses() {
		resp.Expenses = &expenseSummary{
			TotalCost:     ev.ExpenseSummary.TotalCost,
			CostPerPerson: ev.ExpenseSummary.CostPerPerson,
		}
	}
	return resp
}

func toEventResponses(events []models.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return out
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

type expenseItemResponse struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type expenseResponse struct {
	ID            string                `json:"id"`
	EventID       string                `json:"eventId"`
	Title         string                `json:"title,omitempty"`
	DivideBy      int                   `json:"divideBy"`
	Items         []expenseItemResponse `json:"items"`
	Attendees     []string              `json:"attendees"`
	TotalCost     float64               `json:"totalCost"`
	CostPerPerson float64               `json:"costPerPerson"`
}

func toExpenseResponse(ex *models.Expense) expenseResponse {
	items := make([]expenseItemResponse, 0, len(ex.Items))
	for _, it := range ex.Items {
		items = append(items, expenseItemResponse{Name: it.Name, Price: it.Price})
	}
	attendees := ex.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return expenseResponse{
		ID:            ex.ID,
		EventID:       ex.EventID,
		Title:         ex.Title,
		DivideBy:      ex.DivideBy,
		Items:         items,
		Attendees:     attendees,
		TotalCost:     ex.TotalCost,
		CostPerPerson: ex.CostPerPerson,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service and auth errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrNotInvited):
		writeError(w, http.StatusConflict, "no pending invitation")
	case errors.Is(err, service.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, service.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidResetToken):
		writeError(w, http.StatusBadRequest, "invalid or expired reset token")
	default:
		slog.Error("unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
