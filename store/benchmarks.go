// SPDX-License-Identifier: MIT

package store

import (
	"database/sql"
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/measurement"
)

// SaveBenchmark inserts or replaces b. A replaced benchmark keeps its
// position in the suite; a new one is appended.
func (s *Store) SaveBenchmark(b measurement.Benchmark) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.withTx("save benchmark "+b.Title, func(tx *sql.Tx) error {
		return saveBenchmark(tx, b)
	})
}

// SaveSuite replaces the stored suite with suite. Stored correlations go
// with the benchmarks they name.
func (s *Store) SaveSuite(suite *measurement.Suite) error {
	return s.withTx("save suite", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM benchmarks`); err != nil {
			return err
		}
		for _, b := range suite.Benchmarks() {
			if err := saveBenchmark(tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveBenchmark(tx *sql.Tx, b measurement.Benchmark) error {
	query := `
		INSERT INTO benchmarks
		(title, kind, measured, measured_std, calculated, calculated_std, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM benchmarks))
		ON CONFLICT(title) DO UPDATE SET
			kind = excluded.kind,
			measured = excluded.measured,
			measured_std = excluded.measured_std,
			calculated = excluded.calculated,
			calculated_std = excluded.calculated_std
	`
	if _, err := tx.Exec(query,
		b.Title,
		b.Kind.String(),
		b.Measured,
		b.MeasuredStd,
		b.Calculated,
		b.CalculatedStd,
	); err != nil {
		return fmt.Errorf("benchmark %s: %w", b.Title, err)
	}

	if _, err := tx.Exec(`DELETE FROM sensitivities WHERE title = ?`, b.Title); err != nil {
		return fmt.Errorf("benchmark %s: %w", b.Title, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO sensitivities (title, zai, mt, grp, value, std) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for p, v := range b.Sensitivity {
		if _, err := stmt.Exec(b.Title, p.ZAI, p.MT, p.Group, v, b.SensitivityStd[p]); err != nil {
			return fmt.Errorf("benchmark %s: sensitivity %s: %w", b.Title, p, err)
		}
	}
	return nil
}

// GetBenchmark retrieves a benchmark by title.
func (s *Store) GetBenchmark(title string) (measurement.Benchmark, error) {
	query := `
		SELECT title, kind, measured, measured_std, calculated, calculated_std
		FROM benchmarks
		WHERE title = ?
	`
	b, err := scanBenchmark(s.db.QueryRow(query, title))
	if err != nil {
		return b, wrap("get benchmark "+title, err)
	}
	if b.Sensitivity, b.SensitivityStd, err = s.sensitivities(title); err != nil {
		return b, err
	}
	return b, nil
}

// ListBenchmarks returns every stored benchmark in suite order.
func (s *Store) ListBenchmarks() ([]measurement.Benchmark, error) {
	query := `
		SELECT title, kind, measured, measured_std, calculated, calculated_std
		FROM benchmarks
		ORDER BY position
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrap("list benchmarks", err)
	}
	var out []measurement.Benchmark
	for rows.Next() {
		b, err := scanBenchmark(rows)
		if err != nil {
			rows.Close()
			return nil, wrap("scan benchmark", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, wrap("list benchmarks", err)
	}
	rows.Close()

	// sensitivities are read after the cursor is closed; the pool holds one connection
	for i := range out {
		if out[i].Sensitivity, out[i].SensitivityStd, err = s.sensitivities(out[i].Title); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadSuite rebuilds the stored suite.
func (s *Store) LoadSuite() (*measurement.Suite, error) {
	bs, err := s.ListBenchmarks()
	if err != nil {
		return nil, err
	}
	return measurement.NewSuite(bs...)
}

// SaveCorrelations replaces the stored measurement correlations. Both
// benchmarks of a correlation must be stored.
func (s *Store) SaveCorrelations(cs []measurement.Correlation) error {
	return s.withTx("save correlations", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM correlations`); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`
			INSERT INTO correlations (a, b, rho) VALUES (?, ?, ?)
			ON CONFLICT(a, b) DO UPDATE SET rho = excluded.rho
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range cs {
			if _, err := stmt.Exec(c.A, c.B, c.Rho); err != nil {
				return fmt.Errorf("correlation %s/%s: %w", c.A, c.B, err)
			}
		}
		return nil
	})
}

// LoadCorrelations returns the stored measurement correlations in the
// order they were saved.
func (s *Store) LoadCorrelations() ([]measurement.Correlation, error) {
	rows, err := s.db.Query(`SELECT a, b, rho FROM correlations ORDER BY rowid`)
	if err != nil {
		return nil, wrap("load correlations", err)
	}
	defer rows.Close()

	var out []measurement.Correlation
	for rows.Next() {
		var c measurement.Correlation
		if err := rows.Scan(&c.A, &c.B, &c.Rho); err != nil {
			return nil, wrap("scan correlation", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("load correlations", err)
	}
	return out, nil
}

// DeleteBenchmark removes a benchmark with its sensitivities and
// correlations.
func (s *Store) DeleteBenchmark(title string) error {
	res, err := s.db.Exec(`DELETE FROM benchmarks WHERE title = ?`, title)
	if err != nil {
		return wrap("delete benchmark "+title, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete benchmark %s: %w", title, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBenchmark(row scanner) (measurement.Benchmark, error) {
	var b measurement.Benchmark
	var kind string
	if err := row.Scan(&b.Title, &kind, &b.Measured, &b.MeasuredStd, &b.Calculated, &b.CalculatedStd); err != nil {
		return b, err
	}
	k, err := label.ParseKind(kind)
	if err != nil {
		return b, err
	}
	b.Kind = k
	return b, nil
}

// sensitivities returns the coefficients of title and their nonzero
// standard deviations; std is nil when all are zero.
func (s *Store) sensitivities(title string) (values, std map[label.Parameter]float64, err error) {
	rows, err := s.db.Query(`SELECT zai, mt, grp, value, std FROM sensitivities WHERE title = ?`, title)
	if err != nil {
		return nil, nil, wrap("get sensitivities of "+title, err)
	}
	defer rows.Close()

	values = make(map[label.Parameter]float64)
	for rows.Next() {
		var p label.Parameter
		var v, sd float64
		if err := rows.Scan(&p.ZAI, &p.MT, &p.Group, &v, &sd); err != nil {
			return nil, nil, wrap("scan sensitivity", err)
		}
		values[p] = v
		if sd != 0 {
			if std == nil {
				std = make(map[label.Parameter]float64)
			}
			std[p] = sd
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrap("get sensitivities of "+title, err)
	}
	return values, std, nil
}
