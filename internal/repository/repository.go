package repository

import (
	"context"
	"database/sql"
	"time"

	"history_stats/internal/models"
	"history_stats/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// History is the state-change store for monitored entities.
type History interface {
	// Append records one state transition. EventID and ChangedAt are
	// filled in when empty.
	Append(ctx context.Context, e models.StateChangeEvent) error

	// StateChangesDuringPeriod returns the entity's transitions inside
	// [from, to), ordered by time ascending.
	StateChangesDuringPeriod(ctx context.Context, from, to time.Time, entityID string) ([]models.StateChangeEvent, error)

	// StateAt returns the entity's state at or immediately before at.
	// ok is false when the entity has no recorded history at that point.
	StateAt(ctx context.Context, at time.Time, entityID string) (state string, ok bool, err error)

	// List returns transitions filtered by optional [from, to] bounds
	// (inclusive) and optional entity id, ordered ASC.
	List(ctx context.Context, from, to time.Time, entityID string) ([]models.StateChangeEvent, error)
}

type Repository struct {
	History History
	Auth    Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		History: NewHistorySQLite(sqlDB),
		Auth:    NewUserRepository(sqlDB),
	}
}

// InitDB opens the SQLite database file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
