// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package pyirc

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/tidwall/buntdb"
)

const (
	// 'version' of the database schema
	KeySchemaVersion = "db.version"
	// latest schema of the db
	LatestDbSchema = "2"
)

// ErrDatabaseExists is returned by InitDB when it would overwrite a database.
var ErrDatabaseExists = errors.New("database already exists")

// InitDB creates the database.
func InitDB(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrDatabaseExists, path)
		}
		os.Remove(path)
	}

	store, err := buntdb.Open(path)
	if err != nil {
		return fmt.Errorf("Failed to open datastore: %w", err)
	}
	defer store.Close()

	err = store.Update(func(tx *buntdb.Tx) error {
		// set schema version
		_, _, err := tx.Set(KeySchemaVersion, LatestDbSchema, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("Could not save datastore: %w", err)
	}
	return nil
}

// UpgradeDB upgrades the datastore to the latest schema.
func UpgradeDB(path string) error {
	store, err := buntdb.Open(path)
	if err != nil {
		return fmt.Errorf("Failed to open datastore: %w", err)
	}
	defer store.Close()

	err = store.Update(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(KeySchemaVersion)
		if err != nil {
			return fmt.Errorf("Could not read schema version: %w", err)
		}
		version, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("Bad schema version %q: %w", raw, err)
		}

		// schema 1 had bouncer users and a password salt, none of which we
		// use anymore
		if version < 2 {
			var stale []string
			tx.AscendKeys("*", func(key, value string) bool {
				if key != KeySchemaVersion {
					stale = append(stale, key)
				}
				return true
			})
			for _, key := range stale {
				if _, err := tx.Delete(key); err != nil {
					return err
				}
			}
		}

		_, _, err = tx.Set(KeySchemaVersion, LatestDbSchema, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("Could not update datastore: %w", err)
	}
	return nil
}

// CheckDB returns an error unless the database at path is on the latest
// schema.
func CheckDB(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("Database is not initialised, run `pyirc init`: %w", err)
	}

	store, err := buntdb.Open(path)
	if err != nil {
		return fmt.Errorf("Failed to open datastore: %w", err)
	}
	defer store.Close()

	return store.View(func(tx *buntdb.Tx) error {
		version, err := tx.Get(KeySchemaVersion)
		if err != nil {
			return fmt.Errorf("Database is not initialised, run `pyirc init`: %w", err)
		}
		if version != LatestDbSchema {
			return fmt.Errorf("Database schema is %s, expected %s, run `pyirc upgrade-db`", version, LatestDbSchema)
		}
		return nil
	})
}
