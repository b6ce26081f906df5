package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"homewatch/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

// Append inserts a history row. Missing ID and TakenAt are filled in.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.Reading) error {
	if rd.ID == "" {
		rd.ID = uuid.NewString()
	}
	if rd.TakenAt.IsZero() {
		rd.TakenAt = time.Now().UTC()
	} else {
		rd.TakenAt = rd.TakenAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO readings (id, taken_at, solar_w, grid_w, grid_status, stove_c, outdoor_c)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rd.ID,
		rd.TakenAt,
		rd.SolarW,
		floatArg(rd.GridW),
		string(rd.GridStatus),
		floatArg(rd.StoveC),
		floatArg(rd.OutdoorC),
	)
	return err
}

// Range returns readings within [from, to] (inclusive), ordered ascending.
// Zero bounds are open-ended.
func (r *ReadingSQLite) Range(ctx context.Context, from, to time.Time) ([]models.Reading, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "taken_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "taken_at <= ?")
		args = append(args, to.UTC())
	}

	q := `SELECT id, taken_at, solar_w, grid_w, grid_status, stove_c, outdoor_c FROM readings`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY taken_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Reading, 0, 64)
	for rows.Next() {
		var (
			rd       models.Reading
			status   string
			grid     sql.NullFloat64
			stove    sql.NullFloat64
			outdoor  sql.NullFloat64
		)
		if err := rows.Scan(&rd.ID, &rd.TakenAt, &rd.SolarW, &grid, &status, &stove, &outdoor); err != nil {
			return nil, err
		}
		rd.TakenAt = rd.TakenAt.UTC()
		rd.GridStatus = models.GridStatus(status)
		rd.GridW = nullFloat(grid)
		rd.StoveC = nullFloat(stove)
		rd.OutdoorC = nullFloat(outdoor)
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func floatArg(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
