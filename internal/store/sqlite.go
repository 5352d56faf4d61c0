package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsinha/cashguard/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dayLayout = "2006-01-02"

// DB is the SQLite-backed store. Day columns hold bare YYYY-MM-DD strings,
// so loads re-attach the cycle timezone to keep loaded dates comparable
// with dates built from the local clock.
type DB struct {
	db  *sql.DB
	loc *time.Location
}

func dbPath(dir string) string {
	return filepath.Join(dir, "cashguard.db")
}

// OpenDB opens or creates the state database at the given path. Stored day
// values are interpreted in loc.
func OpenDB(path string, loc *time.Location) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}
	return &DB{db: db, loc: loc}, nil
}

// Close closes the state database.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) parseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, d.loc)
}

// Save writes the full state document in one transaction. The document is
// small (a handful of cycles, one spend row per day) so rewriting it whole
// is simpler and safer than diffing.
func (d *DB) Save(s *model.State) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"cycles", "checkins", "overrides"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for i := range s.Cycles {
		c := &s.Cycles[i]
		_, err := tx.Exec(`INSERT INTO cycles (id, start_date, end_date, opening_balance)
			VALUES (?, ?, ?, ?)`,
			c.ID(), model.DateKey(c.StartDate), model.DateKey(c.EndDate), c.OpeningBalance.String(),
		)
		if err != nil {
			return err
		}
		for _, in := range c.Incomes {
			_, err := tx.Exec(`INSERT OR REPLACE INTO incomes (cycle_id, date, amount, label)
				VALUES (?, ?, ?, ?)`,
				c.ID(), model.DateKey(in.Date), in.Amount.String(), in.Label,
			)
			if err != nil {
				return err
			}
		}
		for _, sp := range c.Spends {
			autoFilled := 0
			if sp.AutoFilled {
				autoFilled = 1
			}
			_, err := tx.Exec(`INSERT INTO day_spends
				(cycle_id, date, breakfast, lunch, dinner, other, extra, auto_filled, note)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.ID(), model.DateKey(sp.Date),
				sp.Breakfast.String(), sp.Lunch.String(), sp.Dinner.String(),
				sp.Other.String(), sp.Extra.String(), autoFilled, sp.Note,
			)
			if err != nil {
				return err
			}
		}
	}

	for _, ci := range s.CheckIns {
		resolved := 0
		if ci.Resolved {
			resolved = 1
		}
		_, err := tx.Exec(`INSERT INTO checkins (date, prompt_issued_at, resolved, resolution)
			VALUES (?, ?, ?, ?)`,
			model.DateKey(ci.Date), ci.PromptIssuedAt.UTC().Format(time.RFC3339), resolved, string(ci.Resolution),
		)
		if err != nil {
			return err
		}
	}

	for _, ov := range s.Overrides {
		_, err := tx.Exec(`INSERT INTO overrides (category, item, amount) VALUES (?, ?, ?)`,
			ov.Category, ov.Item, ov.Amount,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load reads the full state document from the database.
func (d *DB) Load() (*model.State, error) {
	state := model.NewState()

	rows, err := d.db.Query("SELECT id, start_date, end_date, opening_balance FROM cycles ORDER BY start_date")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[string]*model.Cycle)
	for rows.Next() {
		var id, startStr, endStr, openingStr string
		if err := rows.Scan(&id, &startStr, &endStr, &openingStr); err != nil {
			return nil, err
		}
		c := model.Cycle{Spends: make(map[string]model.DaySpend)}
		if c.StartDate, err = d.parseDay(startStr); err != nil {
			return nil, fmt.Errorf("cycle %s: %w", id, err)
		}
		if c.EndDate, err = d.parseDay(endStr); err != nil {
			return nil, fmt.Errorf("cycle %s: %w", id, err)
		}
		if c.OpeningBalance, err = decimal.NewFromString(openingStr); err != nil {
			return nil, fmt.Errorf("cycle %s: %w", id, err)
		}
		state.Cycles = append(state.Cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range state.Cycles {
		byID[state.Cycles[i].ID()] = &state.Cycles[i]
	}

	if err := d.loadIncomes(byID); err != nil {
		return nil, err
	}
	if err := d.loadSpends(byID); err != nil {
		return nil, err
	}
	if err := d.loadCheckIns(state); err != nil {
		return nil, err
	}
	if err := d.loadOverrides(state); err != nil {
		return nil, err
	}
	return state, nil
}

func (d *DB) loadIncomes(byID map[string]*model.Cycle) error {
	rows, err := d.db.Query("SELECT cycle_id, date, amount, label FROM incomes ORDER BY date")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cycleID, dateStr, amountStr, label string
		if err := rows.Scan(&cycleID, &dateStr, &amountStr, &label); err != nil {
			return err
		}
		c, ok := byID[cycleID]
		if !ok {
			continue
		}
		var in model.Income
		if in.Date, err = d.parseDay(dateStr); err != nil {
			return fmt.Errorf("income %s/%s: %w", cycleID, dateStr, err)
		}
		if in.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return fmt.Errorf("income %s/%s: %w", cycleID, dateStr, err)
		}
		in.Label = label
		c.Incomes = append(c.Incomes, in)
	}
	return rows.Err()
}

func (d *DB) loadSpends(byID map[string]*model.Cycle) error {
	rows, err := d.db.Query(`SELECT cycle_id, date, breakfast, lunch, dinner, other, extra, auto_filled, note
		FROM day_spends`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cycleID, dateStr, note string
		var amounts [5]string
		var autoFilled int
		if err := rows.Scan(&cycleID, &dateStr,
			&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
			&autoFilled, &note); err != nil {
			return err
		}
		c, ok := byID[cycleID]
		if !ok {
			continue
		}
		var sp model.DaySpend
		if sp.Date, err = d.parseDay(dateStr); err != nil {
			return fmt.Errorf("spend %s/%s: %w", cycleID, dateStr, err)
		}
		dst := []*decimal.Decimal{&sp.Breakfast, &sp.Lunch, &sp.Dinner, &sp.Other, &sp.Extra}
		for i, raw := range amounts {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("spend %s/%s: %w", cycleID, dateStr, err)
			}
			*dst[i] = v
		}
		sp.AutoFilled = autoFilled != 0
		sp.Note = note
		c.PutSpend(sp)
	}
	return rows.Err()
}

func (d *DB) loadCheckIns(state *model.State) error {
	rows, err := d.db.Query("SELECT date, prompt_issued_at, resolved, resolution FROM checkins")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var dateStr, issuedStr, resolution string
		var resolved int
		if err := rows.Scan(&dateStr, &issuedStr, &resolved, &resolution); err != nil {
			return err
		}
		var ci model.CheckIn
		if ci.Date, err = d.parseDay(dateStr); err != nil {
			return fmt.Errorf("checkin %s: %w", dateStr, err)
		}
		if ci.PromptIssuedAt, err = time.Parse(time.RFC3339, issuedStr); err != nil {
			return fmt.Errorf("checkin %s: %w", dateStr, err)
		}
		ci.Resolved = resolved != 0
		ci.Resolution = model.Resolution(resolution)
		state.PutCheckIn(ci)
	}
	return rows.Err()
}

func (d *DB) loadOverrides(state *model.State) error {
	rows, err := d.db.Query("SELECT category, item, amount FROM overrides")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ov model.Override
		if err := rows.Scan(&ov.Category, &ov.Item, &ov.Amount); err != nil {
			return err
		}
		state.Overrides = append(state.Overrides, ov)
	}
	return rows.Err()
}
