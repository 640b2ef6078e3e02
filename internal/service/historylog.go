package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"history_stats/internal/models"
	"history_stats/internal/repository"
)

// HistoryFilter narrows a state-change listing by time range and entity.
type HistoryFilter struct {
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	EntityID string    // empty means all entities
}

type HistoryLogService struct {
	history repository.History
}

func NewHistoryLogService(history repository.History) *HistoryLogService {
	return &HistoryLogService{history: history}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func (s *HistoryLogService) List(ctx context.Context, f HistoryFilter) ([]models.StateChangeEvent, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}

	return s.history.List(ctx, from, to, strings.TrimSpace(f.EntityID))
}
