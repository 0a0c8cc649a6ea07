package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
)

var _ ports.AuditSink = (*EventRepository)(nil)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	const query = `
		INSERT INTO auth_events (id, type, user_id, email, actor_id, reason, remote_ip, occurred_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)`

	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := r.db.Exec(ctx, query,
		id, string(event.Type), event.UserID, event.Email, event.ActorID, event.Reason, event.RemoteIP, event.OccurredAt,
	); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
