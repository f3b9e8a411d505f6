// SPDX-License-Identifier: MIT

package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/label"
)

// Run is the persisted summary of one assimilation.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Note       string
	Parameters int
	Responses  int
	// ChiSquare is nil when the run had no measurements.
	ChiSquare     *glls.ChiSquare
	Cond          float64
	PseudoInverse bool
	Rank          int
	// Entries is filled by GetRun only.
	Entries []RunEntry
}

// RunEntry is the prior and posterior state of one parameter.
type RunEntry struct {
	Parameter         label.Parameter
	Prior             float64
	Posterior         float64
	PriorVariance     float64
	PosteriorVariance float64
}

// PosteriorStd returns √max(PosteriorVariance, 0).
func (e RunEntry) PosteriorStd() float64 { return math.Sqrt(math.Max(e.PosteriorVariance, 0)) }

// PriorStd returns √max(PriorVariance, 0).
func (e RunEntry) PriorStd() float64 { return math.Sqrt(math.Max(e.PriorVariance, 0)) }

// NewRun summarizes res under a fresh random ID.
func NewRun(res *glls.Result, note string) Run {
	diag := res.Diagnostics()
	run := Run{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Note:          note,
		Parameters:    res.Prior().Len(),
		Responses:     res.Residual().Len(),
		Cond:          diag.Cond,
		PseudoInverse: diag.PseudoInverse,
		Rank:          diag.Rank,
	}
	if chi, ok := res.ChiSquare(); ok {
		run.ChiSquare = &chi
	}

	idx := res.Prior().Labels()
	v0 := res.PriorCovariance().Variances()
	v1 := res.PosteriorCovariance().Variances()
	run.Entries = make([]RunEntry, idx.Len())
	for i := range run.Entries {
		run.Entries[i] = RunEntry{
			Parameter:         idx.At(i),
			Prior:             res.Prior().At(i),
			Posterior:         res.Posterior().At(i),
			PriorVariance:     v0.At(i),
			PosteriorVariance: v1.At(i),
		}
	}
	return run
}

// SaveRun inserts run and its entries.
func (s *Store) SaveRun(run Run) error {
	if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("save run: id %q: %w", run.ID, err)
	}
	return s.withTx("save run "+run.ID, func(tx *sql.Tx) error {
		var chi2 sql.NullFloat64
		var dof sql.NullInt64
		if run.ChiSquare != nil {
			chi2 = sql.NullFloat64{Float64: run.ChiSquare.Value, Valid: true}
			dof = sql.NullInt64{Int64: int64(run.ChiSquare.DoF), Valid: true}
		}
		query := `
			INSERT INTO runs
			(id, created_at, note, parameters, responses, chi2, dof, cond, pseudo_inverse, rank)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.Exec(query,
			run.ID,
			run.CreatedAt.UTC().Format(time.RFC3339Nano),
			run.Note,
			run.Parameters,
			run.Responses,
			chi2,
			dof,
			run.Cond,
			run.PseudoInverse,
			run.Rank,
		); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO run_parameters
			(run_id, position, zai, mt, grp, prior, posterior, prior_variance, posterior_variance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, e := range run.Entries {
			p := e.Parameter
			if _, err := stmt.Exec(run.ID, i, p.ZAI, p.MT, p.Group,
				e.Prior, e.Posterior, e.PriorVariance, e.PosteriorVariance); err != nil {
				return fmt.Errorf("run entry %s: %w", p, err)
			}
		}
		return nil
	})
}

const runColumns = `id, created_at, note, parameters, responses, chi2, dof, cond, pseudo_inverse, rank`

// GetRun retrieves a run with its entries.
func (s *Store) GetRun(id string) (Run, error) {
	run, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err != nil {
		return run, wrap("get run "+id, err)
	}

	rows, err := s.db.Query(`
		SELECT zai, mt, grp, prior, posterior, prior_variance, posterior_variance
		FROM run_parameters
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return run, wrap("get run entries", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e RunEntry
		if err := rows.Scan(&e.Parameter.ZAI, &e.Parameter.MT, &e.Parameter.Group,
			&e.Prior, &e.Posterior, &e.PriorVariance, &e.PosteriorVariance); err != nil {
			return run, wrap("scan run entry", err)
		}
		run.Entries = append(run.Entries, e)
	}
	return run, wrap("get run entries", rows.Err())
}

// ListRuns returns the run summaries, newest first, without entries.
// limit <= 0 returns all runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrap("list runs", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, wrap("scan run", err)
		}
		out = append(out, run)
	}
	return out, wrap("list runs", rows.Err())
}

// DeleteRun removes a run and its entries.
func (s *Store) DeleteRun(id string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return wrap("delete run "+id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var createdAt string
	var note sql.NullString
	var chi2 sql.NullFloat64
	var dof sql.NullInt64
	if err := row.Scan(&run.ID, &createdAt, &note, &run.Parameters, &run.Responses,
		&chi2, &dof, &run.Cond, &run.PseudoInverse, &run.Rank); err != nil {
		return run, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return run, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	run.Note = note.String
	if chi2.Valid {
		run.ChiSquare = &glls.ChiSquare{Value: chi2.Float64, DoF: int(dof.Int64)}
	}
	return run, nil
}
