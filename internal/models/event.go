package models

// Event represents a planned gathering owned by its creator.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// CreatorID is the user who created the event. Set once at creation,
	// never changed. The creator is always present in Members.
	CreatorID string

	// Title is the human-readable name of the event.
	Title string

	// Description is free-form text shown on the event details screen.
	Description string

	// Date is the event date in ISO format (YYYY-MM-DD).
	Date string

	// Time is the event start time as entered by the creator (e.g. "18:30").
	Time string

	// ThemeColor is the hex color the creator picked for the event card.
	ThemeColor string

	// Location is a free-form place description.
	Location string

	// Budget is the planned budget. Non-negative; invalid input is coerced
	// to zero at the edge.
	Budget float64

	// Members are the user IDs who have accepted membership.
	// Always contains CreatorID. Disjoint from PendingInvites.
	Members []string

	// PendingInvites are the user IDs invited but not yet responded.
	// Declining removes the ID; the user can be re-invited afterwards.
	PendingInvites []string

	// ExpenseSummary caches the totals of the event's expense sheet.
	// Refreshed whenever the sheet is saved; zero value means no sheet yet.
	ExpenseSummary ExpenseSummary

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// ExpenseSummary is the denormalized projection of an expense sheet's
// totals, stored on the event for cheap list rendering. The values are
// kept as display strings, exactly as the sheet produced them.
type ExpenseSummary struct {
	TotalCost     string
	CostPerPerson string
}

// HasExpenses reports whether a sheet has been saved for the event.
func (s ExpenseSummary) HasExpenses() bool {
	return s.TotalCost != "" || s.CostPerPerson != ""
}

// IsMember reports whether the user has accepted membership.
func (e *Event) IsMember(userID string) bool {
	return contains(e.Members, userID)
}

// IsInvited reports whether the user has a pending invitation.
func (e *Event) IsInvited(userID string) bool {
	return contains(e.PendingInvites, userID)
}

// HasResponded reports whether the user has no pending invitation and is
// not a member. True both before any invite and after a decline.
func (e *Event) HasResponded(userID string) bool {
	return !e.IsMember(userID) && !e.IsInvited(userID)
}

// AddInvite records a pending invitation for the user. Idempotent: a
// no-op when the user is already invited or already a member, so the
// Members/PendingInvites sets stay disjoint.
func (e *Event) AddInvite(userID string) {
	if e.IsMember(userID) || e.IsInvited(userID) {
		return
	}
	e.PendingInvites = append(e.PendingInvites, userID)
}

// AcceptInvite moves the user from PendingInvites to Members.
// Reports false when the user has no pending invitation.
func (e *Event) AcceptInvite(userID string) bool {
	if !e.IsInvited(userID) {
		return false
	}
	e.PendingInvites = remove(e.PendingInvites, userID)
	if !e.IsMember(userID) {
		e.Members = append(e.Members, userID)
	}
	return true
}

// DeclineInvite removes the user's pending invitation, returning the pair
// to the not-involved state. Members is untouched. Reports false when the
// user has no pending invitation.
func (e *Event) DeclineInvite(userID string) bool {
	if !e.IsInvited(userID) {
		return false
	}
	e.PendingInvites = remove(e.PendingInvites, userID)
	return true
}

// RemoveUser drops the user from whichever set currently contains the ID.
// Reports false for the creator, who cannot be removed.
func (e *Event) RemoveUser(userID string) bool {
	if userID == e.CreatorID {
		return false
	}
	e.Members = remove(e.Members, userID)
	e.PendingInvites = remove(e.PendingInvites, userID)
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
