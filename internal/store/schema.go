package store

// Money columns are TEXT holding decimal strings so no amount ever passes
// through a float.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS cycles (
    id               TEXT PRIMARY KEY,
    start_date       TEXT NOT NULL,
    end_date         TEXT NOT NULL,
    opening_balance  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS incomes (
    cycle_id         TEXT NOT NULL REFERENCES cycles(id) ON DELETE CASCADE,
    date             TEXT NOT NULL,
    amount           TEXT NOT NULL,
    label            TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (cycle_id, date, label)
);

CREATE TABLE IF NOT EXISTS day_spends (
    cycle_id         TEXT NOT NULL REFERENCES cycles(id) ON DELETE CASCADE,
    date             TEXT NOT NULL,
    breakfast        TEXT NOT NULL,
    lunch            TEXT NOT NULL,
    dinner           TEXT NOT NULL,
    other            TEXT NOT NULL,
    extra            TEXT NOT NULL,
    auto_filled      INTEGER NOT NULL DEFAULT 0,
    note             TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (cycle_id, date)
);

CREATE TABLE IF NOT EXISTS checkins (
    date             TEXT PRIMARY KEY,
    prompt_issued_at TEXT NOT NULL,
    resolved         INTEGER NOT NULL DEFAULT 0,
    resolution       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS overrides (
    category         TEXT NOT NULL,
    item             TEXT NOT NULL,
    amount           INTEGER NOT NULL,
    PRIMARY KEY (category, item)
);

CREATE INDEX IF NOT EXISTS idx_cycles_start ON cycles(start_date);
CREATE INDEX IF NOT EXISTS idx_spends_date ON day_spends(date);
`
