package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homewatch/internal/models"
)

type GasSQLite struct {
	db *sql.DB
}

func NewGasSQLite(db *sql.DB) *GasSQLite { return &GasSQLite{db: db} }

var _ GasRepo = (*GasSQLite)(nil)

// ErrNotFound is returned when a bottle id does not exist.
var ErrNotFound = errors.New("not found")

const (
	gasColumns = "id, size_kg, level_pct, note, started_at, ended_at"

	insertGasSQL = `INSERT INTO gas_bottles (` + gasColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	updateGasSQL = `UPDATE gas_bottles SET size_kg=?, level_pct=?, note=?, started_at=?, ended_at=? WHERE id=?`
	deleteGasSQL = `DELETE FROM gas_bottles WHERE id=?`
	selectGasSQL = `SELECT ` + gasColumns + ` FROM gas_bottles WHERE id=?`
	listGasSQL   = `SELECT ` + gasColumns + ` FROM gas_bottles ORDER BY started_at DESC`
	activeGasSQL = `SELECT ` + gasColumns + ` FROM gas_bottles WHERE ended_at IS NULL ORDER BY started_at DESC LIMIT 1`
)

func (r *GasSQLite) Insert(ctx context.Context, b models.GasBottle) error {
	_, err := r.db.ExecContext(ctx, insertGasSQL,
		b.ID, b.SizeKg, b.LevelPct, b.Note, b.StartedAt.UTC(), endedAtArg(b.EndedAt))
	if err != nil {
		return fmt.Errorf("insert gas bottle %q: %w", b.ID, err)
	}
	return nil
}

func (r *GasSQLite) Update(ctx context.Context, b models.GasBottle) error {
	res, err := r.db.ExecContext(ctx, updateGasSQL,
		b.SizeKg, b.LevelPct, b.Note, b.StartedAt.UTC(), endedAtArg(b.EndedAt), b.ID)
	if err != nil {
		return fmt.Errorf("update gas bottle %q: %w", b.ID, err)
	}
	return affectedOrNotFound(res)
}

func (r *GasSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteGasSQL, id)
	if err != nil {
		return fmt.Errorf("delete gas bottle %q: %w", id, err)
	}
	return affectedOrNotFound(res)
}

func (r *GasSQLite) Get(ctx context.Context, id string) (*models.GasBottle, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectGasSQL, id))
}

// Active returns the bottle currently in use, or nil when none is open.
func (r *GasSQLite) Active(ctx context.Context) (*models.GasBottle, error) {
	b, err := r.scanOne(r.db.QueryRowContext(ctx, activeGasSQL))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return b, err
}

func (r *GasSQLite) List(ctx context.Context) ([]models.GasBottle, error) {
	rows, err := r.db.QueryContext(ctx, listGasSQL)
	if err != nil {
		return nil, fmt.Errorf("list gas bottles: %w", err)
	}
	defer rows.Close()

	out := make([]models.GasBottle, 0, 8)
	for rows.Next() {
		b, err := scanBottle(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GasSQLite) scanOne(row *sql.Row) (*models.GasBottle, error) {
	b, err := scanBottle(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func scanBottle(scan func(...any) error) (models.GasBottle, error) {
	var (
		b     models.GasBottle
		note  sql.NullString
		ended sql.NullTime
	)
	if err := scan(&b.ID, &b.SizeKg, &b.LevelPct, &note, &b.StartedAt, &ended); err != nil {
		return models.GasBottle{}, err
	}
	b.Note = note.String
	b.StartedAt = b.StartedAt.UTC()
	if ended.Valid {
		t := ended.Time.UTC()
		b.EndedAt = &t
	}
	return b, nil
}

func endedAtArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
