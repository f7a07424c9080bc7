// internal/database/actions.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/sanctum/internal/cache"
)

// ActionStore persists journaled match actions.
//
//	CREATE TABLE matches (
//	    id         UUID PRIMARY KEY,
//	    status     TEXT NOT NULL,
//	    start_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    end_time   TIMESTAMPTZ
//	);
//	CREATE TABLE match_actions (
//	    match_id       UUID NOT NULL REFERENCES matches(id),
//	    action_index   INT NOT NULL,
//	    actor_id       UUID NOT NULL,
//	    faction        TEXT NOT NULL,
//	    action_type    TEXT NOT NULL,
//	    action_payload JSONB NOT NULL,
//	    acted_at       TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (match_id, action_index)
//	);
type ActionStore struct {
	pool *pgxpool.Pool
}

func NewActionStore(pool *pgxpool.Pool) *ActionStore {
	return &ActionStore{pool: pool}
}

// SaveActions writes a batch in one transaction. Replayed records are ignored.
func (s *ActionStore) SaveActions(ctx context.Context, records []cache.ActionRecord) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("match %s action %d: %w", rec.MatchID, rec.ActionIndex, err)
			}
		}
		return nil
	})
}

func insertActionTx(ctx context.Context, tx pgx.Tx, rec cache.ActionRecord) error {
	upsertMatch := `
		INSERT INTO matches (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertMatch, rec.MatchID); err != nil {
		return err
	}

	payload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	insertAction := `
		INSERT INTO match_actions (
			match_id, action_index, actor_id, faction, action_type, action_payload, acted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id, action_index) DO NOTHING
	`
	_, err = tx.Exec(ctx, insertAction,
		rec.MatchID, rec.ActionIndex, rec.ActorID, rec.Faction, rec.ActionType, payload,
		time.UnixMilli(rec.Timestamp),
	)
	return err
}

// MarkAbandoned closes a match that is still in progress.
func (s *ActionStore) MarkAbandoned(ctx context.Context, matchID uuid.UUID) error {
	q := `
		UPDATE matches
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	_, err := s.pool.Exec(ctx, q, matchID)
	return err
}
