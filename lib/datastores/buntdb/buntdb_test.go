package pyircDataStoreBuntdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Screwperman/pyirc/lib"
)

func TestISupportCache(t *testing.T) {
	ds := new(DataStore)
	require.NoError(t, ds.Open(":memory:"))
	defer ds.Close()

	tokens, err := ds.GetISupport("libera")
	require.NoError(t, err)
	assert.Nil(t, tokens)

	require.NoError(t, ds.SaveISupport("libera", []string{"CHANTYPES=#", "NICKLEN=16"}))
	require.NoError(t, ds.SaveISupport("oftc", []string{"NETWORK=OFTC"}))

	tokens, err = ds.GetISupport("libera")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHANTYPES=#", "NICKLEN=16"}, tokens)

	networks, err := ds.Networks()
	require.NoError(t, err)
	assert.Equal(t, []string{"libera", "oftc"}, networks)

	require.NoError(t, ds.DelISupport("libera"))
	require.NoError(t, ds.DelISupport("libera"))
	networks, err = ds.Networks()
	require.NoError(t, err)
	assert.Equal(t, []string{"oftc"}, networks)
}

func TestInitNeedsDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyirc.db")
	config := &pyirc.Config{}
	config.Pyirc.DatabasePath = path

	_, err := pyirc.NewManager(config, new(DataStore))
	assert.Error(t, err)

	require.NoError(t, pyirc.InitDB(path, false))
	ds := new(DataStore)
	manager, err := pyirc.NewManager(config, ds)
	require.NoError(t, err)
	defer ds.Close()
	assert.Same(t, manager, ds.Manager)
}
