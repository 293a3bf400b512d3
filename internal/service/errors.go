package service

import "errors"

var (
	// ErrEventNotFound indicates the event doesn't exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrNotInvited indicates an accept/decline without a pending invite.
	ErrNotInvited = errors.New("user is not invited to this event")
	// ErrNotAuthorized indicates a creator-only operation attempted by
	// someone else.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrStoreUnavailable indicates a storage transport or transaction
	// failure. The caller decides whether to retry; the service never
	// retries on its own.
	ErrStoreUnavailable = errors.New("store unavailable")
)
