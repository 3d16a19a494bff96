// Package localstore is the durable client storage: a single-file key/value
// table holding the serialized session identity and the one-time welcome
// markers. Absence of the identity key means unauthenticated.
package localstore

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/stiedu/loggedin/core/notification"
	"github.com/stiedu/loggedin/core/session"
)

const identityKey = "user"

type Store struct {
	db *sqlx.DB
}

var (
	_ session.Storage      = (*Store)(nil)
	_ notification.Markers = (*Store)(nil)
)

// Open opens (or creates) the store at path; ":memory:" gives a throwaway
// store for tests.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening local store")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating kv table")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *Store) SaveIdentity(ident session.Identity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return errors.Wrap(err, "serializing identity")
	}
	return errors.Wrap(s.set(identityKey, string(data)), "persisting identity")
}

// LoadIdentity returns (nil, nil) when no identity is persisted.
func (s *Store) LoadIdentity() (*session.Identity, error) {
	data, ok, err := s.get(identityKey)
	if err != nil {
		return nil, errors.Wrap(err, "reading persisted identity")
	}
	if !ok {
		return nil, nil
	}
	var ident session.Identity
	if err := json.Unmarshal([]byte(data), &ident); err != nil {
		return nil, errors.Wrap(err, "decoding persisted identity")
	}
	return &ident, nil
}

func (s *Store) ClearIdentity() error {
	return errors.Wrap(s.delete(identityKey), "clearing persisted identity")
}

// Marker reports whether the named one-time marker has been set.
func (s *Store) Marker(key string) (bool, error) {
	_, ok, err := s.get(key)
	return ok, errors.Wrap(err, "reading marker")
}

func (s *Store) SetMarker(key string) error {
	return errors.Wrap(s.set(key, "true"), "setting marker")
}

func (s *Store) ClearMarker(key string) error {
	return errors.Wrap(s.delete(key), "clearing marker")
}
