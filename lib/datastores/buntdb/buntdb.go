// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyircDataStoreBuntdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/buntdb"

	"github.com/Screwperman/pyirc/lib"
)

const (
	// KeyISupport holds the ISUPPORT tokens of a network, as a JSON list.
	KeyISupport       = "network.isupport %s"
	keyISupportPrefix = "network.isupport "
)

type DataStore struct {
	pyirc.DataStoreInterface
	Db      *buntdb.DB
	Manager *pyirc.Manager
}

func (ds *DataStore) Init(manager *pyirc.Manager) error {
	ds.Manager = manager

	err := pyirc.CheckDB(manager.Config.Pyirc.DatabasePath)
	if err != nil {
		return err
	}

	return ds.Open(manager.Config.Pyirc.DatabasePath)
}

// Open opens the database at path.
func (ds *DataStore) Open(path string) error {
	db, err := buntdb.Open(path)
	if err != nil {
		return errors.New("Could not open DB: " + err.Error())
	}
	ds.Db = db
	return nil
}

func (ds *DataStore) Close() error {
	if ds.Db == nil {
		return nil
	}
	return ds.Db.Close()
}

func (ds *DataStore) GetISupport(network string) ([]string, error) {
	var tokens []string

	err := ds.Db.View(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(fmt.Sprintf(KeyISupport, network))
		if err == buntdb.ErrNotFound {
			return nil
		} else if err != nil {
			return err
		}

		err = json.Unmarshal([]byte(raw), &tokens)
		if err != nil {
			return fmt.Errorf("Could not load ISUPPORT tokens (unmarshalling): %s", err.Error())
		}
		return nil
	})

	return tokens, err
}

func (ds *DataStore) SaveISupport(network string, tokens []string) error {
	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	return ds.Db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(fmt.Sprintf(KeyISupport, network), string(raw), nil)
		return err
	})
}

func (ds *DataStore) DelISupport(network string) error {
	return ds.Db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(fmt.Sprintf(KeyISupport, network))
		if err == buntdb.ErrNotFound {
			return nil
		}
		return err
	})
}

func (ds *DataStore) Networks() ([]string, error) {
	var networks []string

	err := ds.Db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(keyISupportPrefix+"*", func(key, value string) bool {
			networks = append(networks, strings.TrimPrefix(key, keyISupportPrefix))
			return true
		})
	})

	sort.Strings(networks)
	return networks, err
}
