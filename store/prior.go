// SPDX-License-Identifier: MIT

package store

import (
	"database/sql"
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/stats"
)

// SavePrior replaces the stored prior parameters and covariance. Only the
// nonzero lower triangle of cov is written.
func (s *Store) SavePrior(x0 stats.Vector[label.Parameter], cov stats.Covariance[label.Parameter]) error {
	if err := stats.Compatible("labels", x0.Labels(), cov.Labels()); err != nil {
		return fmt.Errorf("save prior: %w", err)
	}
	return s.withTx("save prior", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM covariance`); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM parameters`); err != nil {
			return err
		}

		idx := x0.Labels()
		for i := 0; i < x0.Len(); i++ {
			p := idx.At(i)
			if _, err := tx.Exec(`INSERT INTO parameters (position, zai, mt, grp, value) VALUES (?, ?, ?, ?, ?)`,
				i, p.ZAI, p.MT, p.Group, x0.At(i)); err != nil {
				return fmt.Errorf("parameter %s: %w", p, err)
			}
		}

		stmt, err := tx.Prepare(`INSERT INTO covariance (i, j, value) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := 0; i < cov.Len(); i++ {
			for j := 0; j <= i; j++ {
				v, err := cov.AtPos(i, j)
				if err != nil {
					return err
				}
				if v == 0 {
					continue
				}
				if _, err := stmt.Exec(i, j, v); err != nil {
					return fmt.Errorf("covariance (%d,%d): %w", i, j, err)
				}
			}
		}
		return nil
	})
}

// LoadPrior returns the stored prior. ErrNotFound is returned when no
// parameters are stored.
func (s *Store) LoadPrior() (stats.Vector[label.Parameter], stats.Covariance[label.Parameter], error) {
	var x0 stats.Vector[label.Parameter]
	var cov stats.Covariance[label.Parameter]

	rows, err := s.db.Query(`SELECT zai, mt, grp, value FROM parameters ORDER BY position`)
	if err != nil {
		return x0, cov, wrap("load parameters", err)
	}
	var keys []label.Parameter
	var values []float64
	for rows.Next() {
		var p label.Parameter
		var v float64
		if err := rows.Scan(&p.ZAI, &p.MT, &p.Group, &v); err != nil {
			rows.Close()
			return x0, cov, wrap("scan parameter", err)
		}
		keys = append(keys, p)
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return x0, cov, wrap("load parameters", err)
	}
	rows.Close()
	if len(keys) == 0 {
		return x0, cov, fmt.Errorf("load prior: %w", ErrNotFound)
	}

	idx, err := label.NewIndex(keys)
	if err != nil {
		return x0, cov, err
	}
	if x0, err = stats.NewVector(idx, values); err != nil {
		return x0, cov, err
	}

	n := len(keys)
	full := make([][]float64, n)
	for i := range full {
		full[i] = make([]float64, n)
	}
	rows, err = s.db.Query(`SELECT i, j, value FROM covariance`)
	if err != nil {
		return x0, cov, wrap("load covariance", err)
	}
	defer rows.Close()
	for rows.Next() {
		var i, j int
		var v float64
		if err := rows.Scan(&i, &j, &v); err != nil {
			return x0, cov, wrap("scan covariance", err)
		}
		full[i][j], full[j][i] = v, v
	}
	if err := rows.Err(); err != nil {
		return x0, cov, wrap("load covariance", err)
	}

	cov, err = stats.NewCovariance(idx, full)
	return x0, cov, err
}
