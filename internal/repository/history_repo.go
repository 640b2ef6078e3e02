package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"history_stats/internal/models"

	"github.com/google/uuid"
)

// sqliteTimeLayout is the TIMESTAMP text format stored in the DB.
const sqliteTimeLayout = "2006-01-02 15:04:05"

type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite { return &HistorySQLite{db: db} }

var _ History = (*HistorySQLite)(nil)

const (
	insertStateChangeSQL = `
		INSERT INTO state_changes (id, entity_id, state, changed_at)
		VALUES (?, ?, ?, ?)
	`

	selectChangesDuringPeriodSQL = `
		SELECT id, entity_id, state, changed_at FROM state_changes
		WHERE entity_id = ? AND changed_at >= ? AND changed_at < ?
		ORDER BY changed_at ASC
	`

	selectStateAtSQL = `
		SELECT state FROM state_changes
		WHERE entity_id = ? AND changed_at <= ?
		ORDER BY changed_at DESC
		LIMIT 1
	`
)

// Append inserts a new state change. Empty EventID or ChangedAt are set.
func (r *HistorySQLite) Append(ctx context.Context, e models.StateChangeEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.ChangedAt.IsZero() {
		e.ChangedAt = time.Now().UTC()
	} else {
		e.ChangedAt = e.ChangedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertStateChangeSQL,
		e.EventID,
		e.EntityID,
		e.State,
		e.ChangedAt.Format(sqliteTimeLayout),
	)
	return err
}

// StateChangesDuringPeriod returns the entity's transitions in [from, to) ASC.
func (r *HistorySQLite) StateChangesDuringPeriod(ctx context.Context, from, to time.Time, entityID string) ([]models.StateChangeEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectChangesDuringPeriodSQL,
		entityID,
		from.UTC().Format(sqliteTimeLayout),
		to.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStateChanges(rows)
}

// StateAt returns the entity state at or immediately before at.
func (r *HistorySQLite) StateAt(ctx context.Context, at time.Time, entityID string) (string, bool, error) {
	var state string
	err := r.db.QueryRowContext(ctx, selectStateAtSQL,
		entityID,
		at.UTC().Format(sqliteTimeLayout),
	).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return state, true, nil
}

// List returns transitions matching the optional filters, ordered ASC.
func (r *HistorySQLite) List(ctx context.Context, from, to time.Time, entityID string) ([]models.StateChangeEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "changed_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "changed_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if entityID = strings.TrimSpace(entityID); entityID != "" {
		conds = append(conds, "entity_id = ?")
		args = append(args, entityID)
	}

	q := `SELECT id, entity_id, state, changed_at FROM state_changes`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY changed_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStateChanges(rows)
}

func scanStateChanges(rows *sql.Rows) ([]models.StateChangeEvent, error) {
	out := make([]models.StateChangeEvent, 0, 64)
	for rows.Next() {
		var ev models.StateChangeEvent
		if err := rows.Scan(&ev.EventID, &ev.EntityID, &ev.State, &ev.ChangedAt); err != nil {
			return nil, err
		}
		ev.ChangedAt = ev.ChangedAt.UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
