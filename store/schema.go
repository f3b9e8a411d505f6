// SPDX-License-Identifier: MIT

package store

// covariance keeps the nonzero lower triangle only (j <= i).
const schema = `
CREATE TABLE IF NOT EXISTS benchmarks (
    title TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    measured REAL NOT NULL,
    measured_std REAL NOT NULL,
    calculated REAL NOT NULL,
    calculated_std REAL NOT NULL,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sensitivities (
    title TEXT NOT NULL,
    zai INTEGER NOT NULL,
    mt INTEGER NOT NULL,
    grp INTEGER NOT NULL,
    value REAL NOT NULL,
    std REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (title, zai, mt, grp),
    FOREIGN KEY (title) REFERENCES benchmarks(title) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS correlations (
    a TEXT NOT NULL,
    b TEXT NOT NULL,
    rho REAL NOT NULL,
    PRIMARY KEY (a, b),
    CHECK (a <> b),
    CHECK (rho BETWEEN -1 AND 1),
    FOREIGN KEY (a) REFERENCES benchmarks(title) ON DELETE CASCADE,
    FOREIGN KEY (b) REFERENCES benchmarks(title) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS parameters (
    position INTEGER PRIMARY KEY,
    zai INTEGER NOT NULL,
    mt INTEGER NOT NULL,
    grp INTEGER NOT NULL,
    value REAL NOT NULL,
    UNIQUE (zai, mt, grp)
);

CREATE TABLE IF NOT EXISTS covariance (
    i INTEGER NOT NULL,
    j INTEGER NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (i, j),
    CHECK (j <= i),
    FOREIGN KEY (i) REFERENCES parameters(position) ON DELETE CASCADE,
    FOREIGN KEY (j) REFERENCES parameters(position) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    note TEXT,
    parameters INTEGER NOT NULL,
    responses INTEGER NOT NULL,
    chi2 REAL,
    dof INTEGER,
    cond REAL NOT NULL,
    pseudo_inverse BOOLEAN NOT NULL,
    rank INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_parameters (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    zai INTEGER NOT NULL,
    mt INTEGER NOT NULL,
    grp INTEGER NOT NULL,
    prior REAL NOT NULL,
    posterior REAL NOT NULL,
    prior_variance REAL NOT NULL,
    posterior_variance REAL NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_benchmarks_position ON benchmarks(position);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
