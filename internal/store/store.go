// Package store persists the cycle engine state. The primary backend is a
// SQLite database; when the database cannot be opened the package falls back
// to an atomic JSON file so a broken db never blocks logging a spend.
package store

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rsinha/cashguard/internal/model"
)

// Store loads and saves the full state document. Save must be atomic: a
// crash mid-save leaves the previous state intact.
type Store interface {
	Load() (*model.State, error)
	Save(*model.State) error
	Close() error
}

// Open returns the SQLite store rooted at dir, or the JSON-file store if the
// database cannot be opened. loc is the cycle timezone stored dates are
// interpreted in.
func Open(dir string, loc *time.Location, log *logrus.Logger) (Store, error) {
	db, err := OpenDB(dbPath(dir), loc)
	if err == nil {
		return db, nil
	}
	log.WithError(err).Warn("sqlite unavailable, falling back to json file store")
	return OpenJSONFile(jsonPath(dir))
}
