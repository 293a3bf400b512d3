package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nvasko/gatherly/internal/models"
	"github.com/nvasko/gatherly/internal/storage"
)

// MembershipService owns the event membership state machine: creation,
// invitations, accept/decline, removal, and the creator-only edit and
// delete operations. Every transition runs as an atomic read-modify-write
// against the store, never against a cached snapshot.
type MembershipService struct {
	store storage.Store
}

// NewMembershipService creates a new MembershipService with the given
// storage backend.
func NewMembershipService(store storage.Store) *MembershipService {
	return &MembershipService{store: store}
}

// CreateEventRequest carries the creator's form input.
type CreateEventRequest struct {
	Title          string
	Description    string
	Date           string
	Time           string
	ThemeColor     string
	Location       string
	Budget         float64
	InvitedUserIDs []string
}

// CreateEvent creates an event owned by creatorID. The creator is the
// only initial member; everyone else in InvitedUserIDs starts as a
// pending invite. The creator is never placed in the pending set.
func (s *MembershipService) CreateEvent(ctx context.Context, creatorID string, req CreateEventRequest) (*models.Event, error) {
	budget := req.Budget
	if budget < 0 {
		budget = 0
	}

	event := &models.Event{
		CreatorID:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		ThemeColor:  req.ThemeColor,
		Location:    req.Location,
		Budget:      budget,
		Members:     []string{creatorID},
	}
	for _, userID := range req.InvitedUserIDs {
		event.AddInvite(userID)
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "creator_id", creatorID, "error", err)
		return nil, storeErr(err)
	}

	slog.Info("Event created",
		"event_id", event.ID,
		"creator_id", creatorID,
		"invited_count", len(event.PendingInvites),
	)
	return event, nil
}

// GetEvent retrieves an event by ID.
func (s *MembershipService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	return event, nil
}

// EventUpdate carries the creator's edits to the descriptive attributes.
// Membership sets are not editable here; they only change through the
// invite/accept/decline/remove transitions.
type EventUpdate struct {
	Title       string
	Description string
	Date        string
	Time        string
	ThemeColor  string
	Location    string
	Budget      float64
}

// UpdateEvent applies the creator's edits. Fails with ErrNotAuthorized
// for anyone but the creator.
func (s *MembershipService) UpdateEvent(ctx context.Context, callerID, eventID string, upd EventUpdate) error {
	err := s.store.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if e.CreatorID != callerID {
			return ErrNotAuthorized
		}
		e.Title = upd.Title
		e.Description = upd.Description
		e.Date = upd.Date
		e.Time = upd.Time
		e.ThemeColor = upd.ThemeColor
		e.Location = upd.Location
		e.Budget = upd.Budget
		if e.Budget < 0 {
			e.Budget = 0
		}
		return nil
	})
	if err != nil {
		return storeErr(err)
	}

	slog.Info("Event updated", "event_id", eventID, "caller_id", callerID)
	return nil
}

// DeleteEvent removes the event and, transitively, its expense sheet.
// Creator only.
func (s *MembershipService) DeleteEvent(ctx context.Context, callerID, eventID string) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return storeErr(err)
	}
	if event.CreatorID != callerID {
		return ErrNotAuthorized
	}

	if err := s.store.DeleteEvent(ctx, eventID); err != nil {
		return storeErr(err)
	}

	slog.Info("Event deleted", "event_id", eventID, "caller_id", callerID)
	return nil
}

// Invite moves (event, userID) from not-involved to pending. Creator
// only. Idempotent: inviting someone already pending or already a member
// is a no-op, not an error.
func (s *MembershipService) Invite(ctx context.Context, callerID, eventID, userID string) error {
	err := s.store.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if e.CreatorID != callerID {
			return ErrNotAuthorized
		}
		e.AddInvite(userID)
		return nil
	})
	if err != nil {
		return storeErr(err)
	}

	slog.Info("User invited", "event_id", eventID, "user_id", userID)
	return nil
}

// AcceptInvitation moves (event, userID) from pending to member. Fails
// with ErrNotInvited when no pending invite exists at transaction time,
// so a double accept reports cleanly instead of corrupting the sets.
func (s *MembershipService) AcceptInvitation(ctx context.Context, eventID, userID string) error {
	err := s.store.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if !e.AcceptInvite(userID) {
			return ErrNotInvited
		}
		return nil
	})
	if err != nil {
		return storeErr(err)
	}

	slog.Info("Invitation accepted", "event_id", eventID, "user_id", userID)
	return nil
}

// DeclineInvitation drops the pending invite, returning the pair to
// not-involved. The user can be re-invited afterwards. Fails with
// ErrNotInvited when no pending invite exists.
func (s *MembershipService) DeclineInvitation(ctx context.Context, eventID, userID string) error {
	err := s.store.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if !e.DeclineInvite(userID) {
			return ErrNotInvited
		}
		return nil
	})
	if err != nil {
		return storeErr(err)
	}

	slog.Info("Invitation declined", "event_id", eventID, "user_id", userID)
	return nil
}

// RemoveMember drops userID from whichever set currently contains it.
// The creator may remove anyone else; a user may remove themselves
// (leave). The creator can never be removed.
func (s *MembershipService) RemoveMember(ctx context.Context, callerID, eventID, userID string) error {
	err := s.store.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if callerID != e.CreatorID && callerID != userID {
			return ErrNotAuthorized
		}
		if !e.RemoveUser(userID) {
			return ErrNotAuthorized
		}
		return nil
	})
	if err != nil {
		return storeErr(err)
	}

	slog.Info("User removed from event", "event_id", eventID, "user_id", userID)
	return nil
}

// storeErr translates storage failures into the service's error kinds.
// Domain errors raised inside a transaction pass through unchanged.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrEventNotFound
	case errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrNotInvited):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
