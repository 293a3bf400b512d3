package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nvasko/gatherly/internal/models"
	"github.com/nvasko/gatherly/internal/storage"
)

// ExpenseService maintains the single expense sheet per event and keeps
// the event's denormalized summary in sync with it.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// Load fetches the expense sheet for an event. When no sheet has been
// saved yet it returns a fresh empty sheet scoped to the event, so the
// caller always gets something editable. Fails with ErrEventNotFound for
// an unknown event.
func (s *ExpenseService) Load(ctx context.Context, eventID string) (*models.Expense, error) {
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, storeErr(err)
	}

	expense, err := s.store.GetExpenseByEvent(ctx, eventID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.NewExpense(eventID), nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return expense, nil
}

// Save upserts the sheet as the single document for its event and
// refreshes the event's cached expense summary. Totals are recomputed
// before persisting, so a sheet never lands with stale derived fields.
// Failures are surfaced to the caller; Save never retries on its own.
func (s *ExpenseService) Save(ctx context.Context, expense *models.Expense) error {
	if _, err := s.store.GetEvent(ctx, expense.EventID); err != nil {
		return storeErr(err)
	}

	expense.Recompute()

	if err := s.store.UpsertExpense(ctx, expense); err != nil {
		slog.Error("Expense save failed", "event_id", expense.EventID, "error", err)
		return storeErr(err)
	}

	err := s.store.UpdateEvent(ctx, expense.EventID, func(e *models.Event) error {
		e.ExpenseSummary = models.ExpenseSummary{
			TotalCost:     fmt.Sprintf("%.2f", expense.TotalCost),
			CostPerPerson: fmt.Sprintf("%.2f", expense.CostPerPerson),
		}
		return nil
	})
	if err != nil {
		slog.Error("Expense summary refresh failed", "event_id", expense.EventID, "error", err)
		return storeErr(err)
	}

	slog.Info("Expense saved",
		"event_id", expense.EventID,
		"items", len(expense.Items),
		"total", expense.TotalCost,
		"per_person", expense.CostPerPerson,
	)
	return nil
}
