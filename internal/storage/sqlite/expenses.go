package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvasko/gatherly/internal/models"
	"github.com/nvasko/gatherly/internal/storage"
)

// UpsertExpense persists the expense sheet for its event, creating or
// overwriting the single document keyed by EventID.
func (s *SQLiteStore) UpsertExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Keep the existing sheet ID stable across overwrites.
	var existingID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM expenses WHERE event_id = ?", expense.EventID,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to look up expense: %w", err)
	}
	if existingID != "" {
		expense.ID = existingID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, title, divide_by, total_cost, cost_per_person, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(event_id) DO UPDATE SET
		   title = excluded.title,
		   divide_by = excluded.divide_by,
		   total_cost = excluded.total_cost,
		   cost_per_person = excluded.cost_per_person,
		   updated_at = excluded.updated_at`,
		expense.ID, expense.EventID, expense.Title, expense.DivideBy,
		expense.TotalCost, expense.CostPerPerson, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert expense: %w", err)
	}

	// Rewrite items and attendees wholesale; the sheet is saved as one
	// document.
	for _, table := range []string{"expense_items", "expense_attendees"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	for i, item := range expense.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_items (expense_id, position, name, price) VALUES (?, ?, ?, ?)",
			expense.ID, i, item.Name, item.Price)
		if err != nil {
			return fmt.Errorf("failed to insert expense item: %w", err)
		}
	}
	for _, attendee := range expense.Attendees {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_attendees (expense_id, name) VALUES (?, ?)",
			expense.ID, attendee)
		if err != nil {
			return fmt.Errorf("failed to insert attendee: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpenseByEvent retrieves the expense sheet for an event, including
// items in display order and the attendee set.
func (s *SQLiteStore) GetExpenseByEvent(ctx context.Context, eventID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, event_id, title, divide_by, total_cost, cost_per_person, updated_at
		 FROM expenses WHERE event_id = ?`, eventID,
	).Scan(&expense.ID, &expense.EventID, &expense.Title, &expense.DivideBy,
		&expense.TotalCost, &expense.CostPerPerson, &expense.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, price FROM expense_items WHERE expense_id = ? ORDER BY position",
		expense.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ExpenseItem
		if err := rows.Scan(&item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan expense item: %w", err)
		}
		expense.Items = append(expense.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense items: %w", err)
	}

	attendeeRows, err := s.db.QueryContext(ctx,
		"SELECT name FROM expense_attendees WHERE expense_id = ? ORDER BY rowid",
		expense.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendees: %w", err)
	}
	defer attendeeRows.Close()

	for attendeeRows.Next() {
		var name string
		if err := attendeeRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		expense.Attendees = append(expense.Attendees, name)
	}
	if err := attendeeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendees: %w", err)
	}

	return expense, nil
}
