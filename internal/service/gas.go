package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homewatch/internal/models"
	"homewatch/internal/repository"
)

// GasParams describes a new bottle being connected.
type GasParams struct {
	SizeKg   float64
	LevelPct float64
	Note     string
}

var (
	ErrInvalidSize  = errors.New("invalid size_kg: must be greater than 0")
	ErrInvalidLevel = errors.New("invalid level_pct: must be between 0 and 100")
)

// GasService maintains the hand-entered bottle log.
type GasService struct {
	repo repository.GasRepo
	now  func() time.Time
}

func NewGasService(repo repository.GasRepo) *GasService {
	return &GasService{repo: repo, now: time.Now}
}

func (s *GasService) List(ctx context.Context) ([]models.GasBottle, error) {
	return s.repo.List(ctx)
}

// Add registers a new bottle. A full bottle defaults to 100%.
func (s *GasService) Add(ctx context.Context, p GasParams) (models.GasBottle, error) {
	if p.LevelPct == 0 {
		p.LevelPct = 100
	}
	if err := validateGasParams(p); err != nil {
		return models.GasBottle{}, err
	}

	b := models.GasBottle{
		ID:        uuid.NewString(),
		SizeKg:    p.SizeKg,
		LevelPct:  p.LevelPct,
		Note:      p.Note,
		StartedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return models.GasBottle{}, err
	}
	return b, nil
}

// UpdateLevel records a new manual gauge reading for a bottle.
func (s *GasService) UpdateLevel(ctx context.Context, id string, levelPct float64, note string) (models.GasBottle, error) {
	if levelPct < 0 || levelPct > 100 {
		return models.GasBottle{}, ErrInvalidLevel
	}

	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.GasBottle{}, err
	}
	b.LevelPct = levelPct
	if note != "" {
		b.Note = note
	}
	if err := s.repo.Update(ctx, *b); err != nil {
		return models.GasBottle{}, err
	}
	return *b, nil
}

// Swap closes the currently active bottle (marking it empty) and connects a
// new one.
func (s *GasService) Swap(ctx context.Context, p GasParams) (models.GasBottle, error) {
	if p.LevelPct == 0 {
		p.LevelPct = 100
	}
	if err := validateGasParams(p); err != nil {
		return models.GasBottle{}, err
	}

	now := s.now().UTC()
	active, err := s.repo.Active(ctx)
	if err != nil {
		return models.GasBottle{}, err
	}
	if active != nil {
		active.EndedAt = &now
		active.LevelPct = 0
		if err := s.repo.Update(ctx, *active); err != nil {
			return models.GasBottle{}, fmt.Errorf("close active bottle: %w", err)
		}
	}

	b := models.GasBottle{
		ID:        uuid.NewString(),
		SizeKg:    p.SizeKg,
		LevelPct:  p.LevelPct,
		Note:      p.Note,
		StartedAt: now,
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return models.GasBottle{}, err
	}
	return b, nil
}

func (s *GasService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateGasParams(p GasParams) error {
	if p.SizeKg <= 0 {
		return ErrInvalidSize
	}
	if p.LevelPct < 0 || p.LevelPct > 100 {
		return ErrInvalidLevel
	}
	return nil
}
