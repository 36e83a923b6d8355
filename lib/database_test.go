package pyirc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/buntdb"
)

func TestInitDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyirc.db")

	assert.Error(t, CheckDB(path))
	require.NoError(t, InitDB(path, false))
	assert.NoError(t, CheckDB(path))

	assert.ErrorIs(t, InitDB(path, false), ErrDatabaseExists)
	assert.NoError(t, InitDB(path, true))
}

func TestUpgradeDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyirc.db")

	store, err := buntdb.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Update(func(tx *buntdb.Tx) error {
		tx.Set(KeySchemaVersion, "1", nil)
		tx.Set("crypto.salt", "c2FsdA==", nil)
		tx.Set("user.info dan", "{}", nil)
		return nil
	}))
	require.NoError(t, store.Close())

	assert.Error(t, CheckDB(path))
	require.NoError(t, UpgradeDB(path))
	assert.NoError(t, CheckDB(path))

	store, err = buntdb.Open(path)
	require.NoError(t, err)
	defer store.Close()
	store.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get("crypto.salt")
		assert.ErrorIs(t, err, buntdb.ErrNotFound)
		return nil
	})
}
