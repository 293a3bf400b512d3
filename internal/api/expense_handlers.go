package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvasko/gatherly/internal/middleware"
)

func (h *Handler) getExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	visible, err := h.queries.CanView(ctx, eventID, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !visible {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	expense, err := h.expenses.Load(ctx, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

type saveExpenseItem struct {
	Name string `json:"name"`
	// Price arrives as typed text and is parsed leniently; garbage
	// coerces to zero instead of failing the save.
	Price string `json:"price"`
}

type saveExpenseRequest struct {
	Title     string            `json:"title"`
	DivideBy  string            `json:"divideBy"`
	Items     []saveExpenseItem `json:"items"`
	Attendees []string          `json:"attendees"`
}

func (h *Handler) saveExpense(w http.ResponseWriter, r *http.Request) {
	var req saveExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")
	callerID := middleware.GetUserID(ctx)

	visible, err := h.queries.CanView(ctx, eventID, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !visible {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	// Load first so an existing sheet keeps its identity; the save
	// replaces the document wholesale.
	expense, err := h.expenses.Load(ctx, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	expense.SetTitle(req.Title)
	expense.SetDivideBy(req.DivideBy)
	expense.Items = expense.Items[:0]
	for i, item := range req.Items {
		expense.AddItem()
		expense.UpdateItemName(i, item.Name)
		expense.UpdateItemPrice(i, item.Price)
	}
	expense.SetAttendees(req.Attendees)

	if err := h.expenses.Save(ctx, expense); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}
