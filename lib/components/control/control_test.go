package pyircComponentControl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Screwperman/pyirc/lib"
	"github.com/Screwperman/pyirc/lib/ircclient"
)

type nullStore struct{}

func (nullStore) Init(*pyirc.Manager) error            { return nil }
func (nullStore) Close() error                         { return nil }
func (nullStore) GetISupport(string) ([]string, error) { return nil, nil }
func (nullStore) SaveISupport(string, []string) error  { return nil }
func (nullStore) DelISupport(string) error             { return nil }
func (nullStore) Networks() ([]string, error)          { return nil, nil }

func newClient(t *testing.T, owner string) *ircclient.Client {
	t.Helper()
	config := &pyirc.Config{}
	config.Pyirc.DatabasePath = ":memory:"
	config.Pyirc.Owner = owner
	config.Networks = map[string]*pyirc.NetworkConfig{
		"testnet": {Address: "irc.example.net", Port: 6667, Nick: "bot", Username: "bot"},
		"spare":   {Address: "irc.spare.net", Port: 6697, Nick: "bot", Username: "bot", Disabled: true},
	}

	manager, err := pyirc.NewManager(config, nullStore{})
	require.NoError(t, err)
	Run(manager)

	client, err := manager.NewClient("testnet")
	require.NoError(t, err)
	return client
}

func sent(t *testing.T, client *ircclient.Client) []string {
	t.Helper()
	out := new(bytes.Buffer)
	_, err := client.Dispatcher.Flush(out, 0)
	require.NoError(t, err)
	if out.Len() == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out.String(), "\r\n"), "\r\n")
}

func TestControl_Caps(t *testing.T) {
	client := newClient(t, "boss")
	client.Dispatcher.Feed([]byte(":irc.example.net 005 bot NICKLEN=16 :are supported\r\n"))
	client.Dispatcher.Feed([]byte(":Boss!b@example.net PRIVMSG bot :caps\r\n"))

	lines := sent(t, client)
	require.Len(t, lines, len(client.Caps.TableLines()))
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "NOTICE Boss :"), line)
	}
	assert.Contains(t, strings.Join(lines, "\n"), "NICKLEN")
}

func TestControl_Networks(t *testing.T) {
	client := newClient(t, "boss")
	client.Dispatcher.Feed([]byte(":boss!b@example.net PRIVMSG bot :networks\r\n"))

	out := strings.Join(sent(t, client), "\n")
	assert.Contains(t, out, "irc.example.net:6667")
	assert.Contains(t, out, "irc.spare.net:6697")
	assert.Less(t, strings.Index(out, "spare"), strings.Index(out, "testnet"))
}

func TestControl_NetworkStatus(t *testing.T) {
	client := newClient(t, "boss")
	client.Dispatcher.Feed([]byte(":irc.example.net 005 bot NICKLEN=16 NETWORK=Example :are supported\r\n"))
	client.HandleClose(errors.New("connection reset by peer"))

	client.Dispatcher.Feed([]byte(":boss!b@example.net PRIVMSG bot :networks\r\n"))
	lines := sent(t, client)

	var testnet string
	for _, line := range lines {
		if strings.Contains(line, "testnet") {
			testnet = line
		}
	}
	assert.Contains(t, testnet, "connection reset by peer")
	assert.Regexp(t, `\|\s*2\s*\|`, testnet)
}

func TestControl_Version(t *testing.T) {
	client := newClient(t, "boss")
	client.Dispatcher.Feed([]byte(":boss!b@example.net PRIVMSG bot :VERSION\r\n"))

	assert.Equal(t, []string{"NOTICE boss :" + pyirc.Ver}, sent(t, client))
}

func TestControl_IgnoresStrangers(t *testing.T) {
	client := newClient(t, "boss")
	client.Dispatcher.Feed([]byte(":mallory!m@example.net PRIVMSG bot :caps\r\n"))
	client.Dispatcher.Feed([]byte(":boss!b@example.net PRIVMSG #chan :caps\r\n"))
	client.Dispatcher.Feed([]byte(":boss!b@example.net NOTICE bot :caps\r\n"))

	assert.Empty(t, sent(t, client))
}

func TestControl_NoOwner(t *testing.T) {
	client := newClient(t, "")
	client.Dispatcher.Feed([]byte(":boss!b@example.net PRIVMSG bot :caps\r\n"))

	assert.Empty(t, sent(t, client))
}
