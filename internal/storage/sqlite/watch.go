package sqlite

import (
	"context"
	"sync"

	"github.com/nvasko/gatherly/internal/models"
)

// notifier fans out a change signal to all registered watchers whenever
// an event document is written. SQLite has no change feed, so the store
// broadcasts after each committed write and watchers re-query.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan struct{})}
}

// broadcast wakes every watcher. Signals coalesce: a watcher that is
// already pending a re-query is not queued twice.
func (n *notifier) broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (n *notifier) subscribe() (int, chan struct{}, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return 0, nil, false
	}
	id := n.nextID
	n.nextID++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch
	return id, ch, true
}

func (n *notifier) unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id, ch := range n.subs {
		close(ch)
		delete(n.subs, id)
	}
}

// WatchInvitedEvents delivers the user's full pending-invitation list on
// every underlying event change, starting with the current state. Each
// delivery is the complete current result set, never a delta, so
// consumers render idempotently. Cancel (or ctx expiry) stops delivery
// and closes the channel; it never rolls back store mutations.
func (s *SQLiteStore) WatchInvitedEvents(ctx context.Context, userID string) (<-chan []models.Event, func(), error) {
	id, signal, ok := s.notifier.subscribe()
	if !ok {
		return nil, nil, context.Canceled
	}

	out := make(chan []models.Event)
	stop := make(chan struct{})
	var stopOnce sync.Once
	cancel := func() {
		stopOnce.Do(func() {
			s.notifier.unsubscribe(id)
			close(stop)
		})
	}

	go func() {
		defer close(out)
		defer cancel()
		for {
			events, err := s.ListEventsByInvitee(ctx, userID)
			if err == nil {
				select {
				case out <- events:
				case <-stop:
					return
				case <-ctx.Done():
					return
				}
			}

			select {
			case _, alive := <-signal:
				if !alive {
					return
				}
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}
