package pyirc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyirc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
pyirc:
  database-path: pyirc.db
  log-level: debug
  logging:
    file:
      path: logs/
networks:
  LiberaChat:
    address: irc.libera.chat
    nick: dan
    channels:
      - "#go"
      - "#secret hunter2"
    quit-on: MODE
    sendq: 64k
  oftc:
    address: irc.oftc.net
    port: 6697
    nick: dan
    username: daniel
    realname: Daniel
    disabled: true
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pyirc.db", config.Pyirc.DatabasePath)
	assert.Equal(t, "debug", config.Pyirc.LogLevel)
	assert.Equal(t, map[string]string{"path": "logs/"}, config.Pyirc.Logging["file"])

	require.Contains(t, config.Networks, "liberachat")
	libera := config.Networks["liberachat"]
	assert.Equal(t, DefaultPort, libera.Port)
	assert.Equal(t, "dan", libera.Username)
	assert.Equal(t, Ver, libera.Realname)
	assert.Equal(t, "MODE", libera.QuitOn)
	assert.Equal(t, map[string]string{"#go": "", "#secret": "hunter2"}, libera.ChannelKeys())

	sendq, err := libera.SendQBytes()
	require.NoError(t, err)
	assert.Equal(t, 64*1024, sendq)

	oftc := config.Networks["oftc"]
	assert.Equal(t, 6697, oftc.Port)
	assert.Equal(t, "daniel", oftc.Username)
	assert.True(t, oftc.Disabled)
	sendq, err = oftc.SendQBytes()
	require.NoError(t, err)
	assert.Equal(t, 32*1024, sendq)
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"no networks": `
pyirc:
  database-path: pyirc.db
`,
		"no database": `
networks:
  libera:
    address: irc.libera.chat
    nick: dan
`,
		"no address": `
pyirc:
  database-path: pyirc.db
networks:
  libera:
    nick: dan
`,
		"bad nick": `
pyirc:
  database-path: pyirc.db
networks:
  libera:
    address: irc.libera.chat
    nick: "d@n"
`,
		"bad port": `
pyirc:
  database-path: pyirc.db
networks:
  libera:
    address: irc.libera.chat
    port: 70000
    nick: dan
`,
		"bad sendq": `
pyirc:
  database-path: pyirc.db
networks:
  libera:
    address: irc.libera.chat
    nick: dan
    sendq: lots
`,
		"duplicate network": `
pyirc:
  database-path: pyirc.db
networks:
  libera:
    address: irc.libera.chat
    nick: dan
  LIBERA:
    address: irc.libera.chat
    nick: dan
`,
		"empty": ``,
	}

	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, contents))
			assert.Error(t, err)
		})
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	config := &Config{}
	config.Pyirc.DatabasePath = "pyirc.db"
	config.Networks = map[string]*NetworkConfig{
		"libera": {Address: "irc.libera.chat", Nick: "dan", Channels: []string{"#go"}},
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, config.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "irc.libera.chat", loaded.Networks["libera"].Address)
	assert.Equal(t, []string{"#go"}, loaded.Networks["libera"].Channels)
}
