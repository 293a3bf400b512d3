package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nvasko/gatherly/internal/models"
	"github.com/nvasko/gatherly/internal/storage"
)

// QueryService is the read side: event lists, the live invitation feed,
// visibility checks, and display-name resolution.
type QueryService struct {
	store storage.Store
}

// NewQueryService creates a new QueryService with the given storage
// backend.
func NewQueryService(store storage.Store) *QueryService {
	return &QueryService{store: store}
}

// ListVisibleEvents returns the events the user is a member of, for the
// primary event list.
func (s *QueryService) ListVisibleEvents(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.store.ListEventsByMember(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

// ListPendingInvitations returns the events the user has been invited to
// but not yet responded.
func (s *QueryService) ListPendingInvitations(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.store.ListEventsByInvitee(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

// WatchPendingInvitations delivers the user's full pending-invitation
// list on every underlying change. Each delivery is the complete current
// list, so consumers re-render idempotently. The returned cancel
// function stops delivery; it never rolls back already-applied writes.
func (s *QueryService) WatchPendingInvitations(ctx context.Context, userID string) (<-chan []models.Event, func(), error) {
	updates, cancel, err := s.store.WatchInvitedEvents(ctx, userID)
	if err != nil {
		return nil, nil, storeErr(err)
	}
	return updates, cancel, nil
}

// ListEventsCreatedBy returns the events the user organizes.
func (s *QueryService) ListEventsCreatedBy(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.store.ListEventsByCreator(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

// SearchEventsByTitle filters the user's visible events by a
// case-insensitive substring match on the title. An empty query returns
// everything visible.
func (s *QueryService) SearchEventsByTitle(ctx context.Context, userID, query string) ([]models.Event, error) {
	events, err := s.ListVisibleEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return events, nil
	}

	matched := events[:0]
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), query) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// ResolveDisplayNames maps user IDs to human labels. Best effort: an ID
// that doesn't resolve gets a deterministic placeholder instead of
// failing the whole batch.
func (s *QueryService) ResolveDisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, storeErr(err)
	}

	names := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if user, ok := users[id]; ok {
			names[id] = user.Label()
		} else {
			names[id] = "User " + id
		}
	}
	return names, nil
}

// GetUser returns a single user by ID, or nil when no such user exists.
func (s *QueryService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// ListUsers returns all registered users, for the invite picker.
func (s *QueryService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

// CanView reports whether the user may see the event: member or pending
// invitee. An unknown event is simply not viewable.
func (s *QueryService) CanView(ctx context.Context, eventID, userID string) (bool, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeErr(err)
	}
	return event.IsMember(userID) || event.IsInvited(userID), nil
}

// CanEdit reports whether the user may edit or delete the event:
// creator only.
func (s *QueryService) CanEdit(ctx context.Context, eventID, userID string) (bool, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeErr(err)
	}
	return event.CreatorID == userID, nil
}
