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

// querier is satisfied by both *sql.DB and *sql.Tx so the event read
// helpers work inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateEvent persists a new event with its membership sets.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, creator_id, title, description, date, time, theme_color, location, budget, summary_total, summary_per_person, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.CreatorID, event.Title, event.Description, event.Date, event.Time,
		event.ThemeColor, event.Location, event.Budget,
		event.ExpenseSummary.TotalCost, event.ExpenseSummary.CostPerPerson, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := writeMembership(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifier.broadcast()
	return nil
}

// GetEvent retrieves an event by ID, including both membership sets.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	return getEvent(ctx, s.db, eventID)
}

// UpdateEvent applies mutate to the event inside a single transaction:
// re-read, mutate, write back. Concurrent updates of the same event are
// serialized by SQLite's write lock, so a membership transition never
// operates on a stale snapshot.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, eventID string, mutate func(*models.Event) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	event, err := getEvent(ctx, tx, eventID)
	if err != nil {
		return err
	}

	if err := mutate(event); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, date = ?, time = ?, theme_color = ?, location = ?, budget = ?, summary_total = ?, summary_per_person = ?
		 WHERE id = ?`,
		event.Title, event.Description, event.Date, event.Time, event.ThemeColor,
		event.Location, event.Budget,
		event.ExpenseSummary.TotalCost, event.ExpenseSummary.CostPerPerson, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	// Rewrite the membership sets wholesale; they are small and the
	// transaction already holds the write lock.
	for _, table := range []string{"event_members", "event_invites"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE event_id = ?", eventID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := writeMembership(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifier.broadcast()
	return nil
}

// DeleteEvent removes an event. Membership rows and the expense sheet go
// with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	s.notifier.broadcast()
	return nil
}

// ListEventsByMember returns events where the user is an accepted member.
func (s *SQLiteStore) ListEventsByMember(ctx context.Context, userID string) ([]models.Event, error) {
	return s.listEvents(ctx,
		`SELECT e.id FROM events e JOIN event_members m ON m.event_id = e.id
		 WHERE m.user_id = ? ORDER BY e.created_at DESC`, userID)
}

// ListEventsByInvitee returns events where the user has a pending invite.
func (s *SQLiteStore) ListEventsByInvitee(ctx context.Context, userID string) ([]models.Event, error) {
	return s.listEvents(ctx,
		`SELECT e.id FROM events e JOIN event_invites i ON i.event_id = e.id
		 WHERE i.user_id = ? ORDER BY e.created_at DESC`, userID)
}

// ListEventsByCreator returns events the user created.
func (s *SQLiteStore) ListEventsByCreator(ctx context.Context, userID string) ([]models.Event, error) {
	return s.listEvents(ctx,
		`SELECT id FROM events WHERE creator_id = ? ORDER BY created_at DESC`, userID)
}

func (s *SQLiteStore) listEvents(ctx context.Context, idQuery string, args ...any) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, idQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	events := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		event, err := getEvent(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, nil
}

func getEvent(ctx context.Context, q querier, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := q.QueryRowContext(ctx,
		`SELECT id, creator_id, title, description, date, time, theme_color, location, budget, summary_total, summary_per_person, created_at
		 FROM events WHERE id = ?`, eventID,
	).Scan(&event.ID, &event.CreatorID, &event.Title, &event.Description, &event.Date,
		&event.Time, &event.ThemeColor, &event.Location, &event.Budget,
		&event.ExpenseSummary.TotalCost, &event.ExpenseSummary.CostPerPerson, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.Members, err = readUserIDs(ctx, q, "event_members", eventID)
	if err != nil {
		return nil, err
	}
	event.PendingInvites, err = readUserIDs(ctx, q, "event_invites", eventID)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func readUserIDs(ctx context.Context, q querier, table, eventID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM "+table+" WHERE event_id = ? ORDER BY rowid", eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return ids, nil
}

func writeMembership(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	for _, userID := range event.Members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_members (event_id, user_id) VALUES (?, ?)",
			event.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	for _, userID := range event.PendingInvites {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_invites (event_id, user_id) VALUES (?, ?)",
			event.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to insert invite: %w", err)
		}
	}
	return nil
}
