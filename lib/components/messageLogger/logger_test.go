package pyircComponentLogger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Screwperman/pyirc/lib"
	"github.com/Screwperman/pyirc/lib/ircclient"
	"github.com/Screwperman/pyirc/lib/wireproto"
)

func lineEvent(client *ircclient.Client, line string) *pyirc.HookIrcLine {
	msg := wireproto.Decode(line)
	return &pyirc.HookIrcLine{Network: "testnet", Client: client, Message: &msg}
}

func TestExtractMessageParts(t *testing.T) {
	client := ircclient.NewClient("testnet", "dan", "dan", "Dan")

	cases := []struct {
		line   string
		ok     bool
		buffer string
		text   string
	}{
		{":Bob!b@h PRIVMSG #Go :hi \x02there\x02", true, "#go", "<bob> hi there"},
		{":Bob!b@h PRIVMSG #go :\x01ACTION waves\x01", true, "#go", "* bob waves"},
		{":Bob!b@h PRIVMSG #go :\x01VERSION\x01", false, "", ""},
		{":Bob!b@h PRIVMSG dan :psst", true, "bob", "<bob> psst"},
		{":irc.example.net NOTICE dan :hello", true, "irc.example.net", "-irc.example.net- hello"},
		{":Bob!b@h JOIN #go", true, "#go", "* bob has joined #go"},
		{":Bob!b@h PART #go :bye", true, "#go", "* bob has left #go bye"},
		{":Op!o@h KICK #go Bob :spam", true, "#go", "* bob has been kicked from #go by Op (spam)"},
		{":irc.example.net 001 dan :Welcome", false, "", ""},
		{"PRIVMSG", false, "", ""},
	}

	for _, tc := range cases {
		parts, ok := extractMessageParts(lineEvent(client, tc.line))
		require.Equal(t, tc.ok, ok, tc.line)
		if !ok {
			continue
		}
		assert.Equal(t, tc.buffer, parts.buffer, tc.line)
		assert.Equal(t, tc.text, parts.format(), tc.line)
	}
}

func TestFileMessageDatastore(t *testing.T) {
	dir := t.TempDir()
	client := ircclient.NewClient("testnet", "dan", "dan", "Dan")

	ds := NewFileMessageDatastore(map[string]string{"path": dir})
	ds.now = func() time.Time { return time.Date(2017, 3, 1, 12, 0, 0, 0, time.UTC) }
	require.True(t, ds.SupportsStore())
	assert.False(t, ds.SupportsRetrieve())

	ds.Store(lineEvent(client, ":Bob!b@h PRIVMSG #go :\x0304red\x03 text"))
	ds.Store(lineEvent(client, ":Bob!b@h JOIN #go"))
	ds.Store(lineEvent(client, ":irc.example.net 001 dan :Welcome"))
	ds.Store(lineEvent(client, ":Bob!b@h PRIVMSG ../../etc :sneaky"))

	contents, err := os.ReadFile(filepath.Join(dir, "testnet", "#go.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"[2017-03-01T12:00:00Z] <bob> red text",
		"[2017-03-01T12:00:00Z] * bob has joined #go",
	}, strings.Split(strings.TrimSpace(string(contents)), "\n"))

	entries, err := os.ReadDir(filepath.Join(dir, "testnet"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	config := &pyirc.Config{}
	config.Pyirc.Logging = map[string]map[string]string{
		"file":    {"path": dir},
		"carrier": {},
	}
	manager := &pyirc.Manager{Config: config, Bus: pyirc.MakeHookEmitter()}

	logger, err := Run(manager)
	require.NoError(t, err)
	defer logger.Close()
	assert.Len(t, logger.stores, 1)

	client := ircclient.NewClient("testnet", "dan", "dan", "Dan")
	manager.Bus.Dispatch(pyirc.HookIrcLineName, lineEvent(client, ":Bob!b@h PRIVMSG #go :hello"))

	contents, err := os.ReadFile(filepath.Join(dir, "testnet", "#go.log"))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "<bob> hello")
}
