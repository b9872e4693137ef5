package postgres

import (
	"context"
	"database/sql"

	"slotpoll/internal/domain"
)

type responseRepository struct {
	DB *sql.DB
}

func NewResponseRepository(db *sql.DB) domain.ResponseRepository {
	return &responseRepository{
		DB: db,
	}
}

func (r *responseRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.SlotResponse, error) {
	query := `
		SELECT id, event_id, participant_id, slot_id, available, created_at
		FROM slot_responses
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *responseRepository) ListByParticipantID(ctx context.Context, participantID string) ([]*domain.SlotResponse, error) {
	query := `
		SELECT id, event_id, participant_id, slot_id, available, created_at
		FROM slot_responses
		WHERE participant_id = $1
		ORDER BY slot_id ASC
	`
	return r.list(ctx, query, participantID)
}

func (r *responseRepository) list(ctx context.Context, query string, arg any) ([]*domain.SlotResponse, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	responses := make([]*domain.SlotResponse, 0)
	for rows.Next() {
		resp := &domain.SlotResponse{}
		if err := rows.Scan(&resp.ID, &resp.EventID, &resp.ParticipantID, &resp.SlotID, &resp.Available, &resp.CreatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
