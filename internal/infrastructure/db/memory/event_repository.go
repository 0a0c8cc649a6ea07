package memory

import (
	"context"
	"sync"

	"github.com/carrental/admin-api/internal/core/domain"
)

// EventRepository appends audit events to a slice.
type EventRepository struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// Events returns a snapshot of everything recorded so far.
func (r *EventRepository) Events() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEvent, len(r.events))
	copy(out, r.events)
	return out
}
