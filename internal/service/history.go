package service

import (
	"context"
	"errors"
	"time"

	"homewatch/internal/models"
	"homewatch/internal/repository"
)

var errInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// HistoryService serves the recorded telemetry rows.
type HistoryService struct {
	repo repository.ReadingRepo
}

func NewHistoryService(repo repository.ReadingRepo) *HistoryService {
	return &HistoryService{repo: repo}
}

func (s *HistoryService) Range(ctx context.Context, from, to time.Time) ([]models.Reading, error) {
	from = toUTC(from)
	to = toUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.repo.Range(ctx, from, to)
}

// toUTC normalizes non-zero times to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
