package repository

import (
	"context"
	"database/sql"
	"time"

	"homewatch/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// GasRepo persists the manually tracked gas bottles.
type GasRepo interface {
	List(ctx context.Context) ([]models.GasBottle, error)
	Get(ctx context.Context, id string) (*models.GasBottle, error)
	Active(ctx context.Context) (*models.GasBottle, error)
	Insert(ctx context.Context, b models.GasBottle) error
	Update(ctx context.Context, b models.GasBottle) error
	Delete(ctx context.Context, id string) error
}

// ReadingRepo is the append-only telemetry history behind the charts.
type ReadingRepo interface {
	Append(ctx context.Context, r models.Reading) error
	Range(ctx context.Context, from, to time.Time) ([]models.Reading, error)
}

type Repository struct {
	Gas      GasRepo
	Readings ReadingRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Gas:      NewGasSQLite(db),
		Readings: NewReadingSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
