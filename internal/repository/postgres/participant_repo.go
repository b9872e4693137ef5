package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"slotpoll/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

// SubmitResponses replaces a participant's full answer set in one
// transaction. The participant row is upserted on (event_id, identity_key),
// every prior response is deleted, and the new answers are inserted in the
// order given. Concurrent submissions for the same identity serialize on the
// unique index, so the last committed transaction wins wholesale.
func (r *participantRepository) SubmitResponses(ctx context.Context, eventID, identityKey, displayName string, answers []domain.SlotAnswer) (*domain.Participant, []*domain.SlotResponse, error) {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, nil, fmt.Errorf("begin submit tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	p := &domain.Participant{
		EventID:     eventID,
		DisplayName: displayName,
		IdentityKey: identityKey,
		SubmittedAt: now,
	}
	upsert := `
		INSERT INTO participants (id, event_id, display_name, identity_key, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, identity_key)
		DO UPDATE SET display_name = EXCLUDED.display_name, submitted_at = EXCLUDED.submitted_at
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, upsert, uuid.NewString(), eventID, displayName, identityKey, now).Scan(&p.ID); err != nil {
		return nil, nil, fmt.Errorf("upsert participant: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM slot_responses WHERE participant_id = $1`, p.ID); err != nil {
		return nil, nil, fmt.Errorf("clear previous responses: %w", err)
	}

	insert := `
		INSERT INTO slot_responses (id, event_id, participant_id, slot_id, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	responses := make([]*domain.SlotResponse, 0, len(answers))
	for _, a := range answers {
		resp := &domain.SlotResponse{
			ID:            uuid.NewString(),
			EventID:       eventID,
			ParticipantID: p.ID,
			SlotID:        a.SlotID,
			Available:     a.Available,
			CreatedAt:     now,
		}
		if _, err := tx.ExecContext(ctx, insert, resp.ID, resp.EventID, resp.ParticipantID, resp.SlotID, resp.Available, resp.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("insert response for slot %s: %w", a.SlotID, err)
		}
		responses = append(responses, resp)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit submit tx: %w", err)
	}
	return p, responses, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `
		SELECT id, event_id, display_name, identity_key, submitted_at
		FROM participants
		WHERE event_id = $1
		ORDER BY submitted_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.DisplayName, &p.IdentityKey, &p.SubmittedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *participantRepository) GetByEventAndIdentity(ctx context.Context, eventID, identityKey string) (*domain.Participant, error) {
	query := `
		SELECT id, event_id, display_name, identity_key, submitted_at
		FROM participants
		WHERE event_id = $1 AND identity_key = $2
	`
	p := &domain.Participant{}
	err := r.DB.QueryRowContext(ctx, query, eventID, identityKey).Scan(
		&p.ID, &p.EventID, &p.DisplayName, &p.IdentityKey, &p.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
