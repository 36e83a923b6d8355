// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package pyirc

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib/capabilities"
	"github.com/Screwperman/pyirc/lib/ircclient"
	"github.com/Screwperman/pyirc/lib/wireproto"
)

var (
	// QuitSignals is the list of signals we quit on
	QuitSignals = []os.Signal{syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT}

	// QuitGrace is how long networks get to close after we send QUIT.
	QuitGrace = 3 * time.Second
)

// Manager handles the different components that keep pyirc spinning.
type Manager struct {
	Config *Config
	Data   DataStoreInterface
	Bus    HookEmitter

	Clients map[string]*ircclient.Client
}

// NewManager creates a new manager from the given config and datastore.
func NewManager(config *Config, ds DataStoreInterface) (*Manager, error) {
	m := &Manager{
		Config:  config,
		Data:    ds,
		Bus:     MakeHookEmitter(),
		Clients: make(map[string]*ircclient.Client),
	}

	err := ds.Init(m)
	if err != nil {
		return nil, fmt.Errorf("Creating new manager failed: %w", err)
	}

	return m, nil
}

// NetworkNames returns the names of the enabled networks, sorted.
func (m *Manager) NetworkNames() []string {
	var names []string
	for name, nc := range m.Config.Networks {
		if !nc.Disabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewClient creates the client for the named network, with its
// capabilities primed from the datastore.
func (m *Manager) NewClient(name string) (*ircclient.Client, error) {
	nc, exists := m.Config.Networks[name]
	if !exists {
		return nil, fmt.Errorf("Network %s is not defined", name)
	}

	client := ircclient.NewClient(name, nc.Nick, nc.Username, nc.Realname)
	client.Password = nc.Password
	client.QuitOn = nc.QuitOn

	var err error
	client.SendQ, err = nc.SendQBytes()
	if err != nil {
		return nil, err
	}

	client.Caps, err = m.CachedCapabilities(name)
	if err != nil {
		log.Warn().Str("network", name).Err(err).Msg("dropping cached capabilities")
		client.Caps = capabilities.New()
		if err := m.Data.DelISupport(name); err != nil {
			log.Error().Str("network", name).Err(err).Msg("could not drop cached capabilities")
		}
	}

	channels := nc.ChannelKeys()
	client.HandleCommand(wireproto.RPL_WELCOME, func(*wireproto.Message) {
		for channel, key := range channels {
			client.JoinChannel(channel, key)
		}
	})

	client.HandleCommand(wireproto.RPL_ISUPPORT, func(*wireproto.Message) {
		tokens := client.Caps.Tokens()
		if err := m.Data.SaveISupport(name, tokens); err != nil {
			log.Error().Str("network", name).Err(err).Msg("could not save capabilities")
		}
		m.Bus.Dispatch(HookISupportName, &HookISupport{
			Network: name,
			Client:  client,
			Tokens:  tokens,
		})
	})

	client.HandleCommand("ALL", func(msg *wireproto.Message) {
		m.Bus.Dispatch(HookIrcLineName, &HookIrcLine{
			Network: name,
			Client:  client,
			Message: msg,
		})
	})

	client.HandleCommand("CLOSED", func(*wireproto.Message) {
		m.Bus.Dispatch(HookIrcClosedName, &HookIrcClosed{
			Network: name,
			Err:     client.Err,
		})
	})

	m.Clients[name] = client
	return client, nil
}

// CachedCapabilities rebuilds the capabilities last seen on the network.
func (m *Manager) CachedCapabilities(name string) (*capabilities.ServerCapabilities, error) {
	tokens, err := m.Data.GetISupport(name)
	if err != nil {
		return nil, err
	}

	caps := capabilities.New()
	for _, token := range tokens {
		if err := caps.SetCapability(token); err != nil {
			return nil, fmt.Errorf("cached token %q: %w", token, err)
		}
	}
	return caps, nil
}

// Run connects to every enabled network and returns once they have all
// closed. Cancelling ctx or receiving a quit signal sends QUIT everywhere.
func (m *Manager) Run(ctx context.Context) error {
	signalCtx, stop := signal.NotifyContext(ctx, QuitSignals...)
	defer stop()

	// networks outlive signalCtx long enough to say goodbye
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	names := m.NetworkNames()
	if len(names) == 0 {
		return fmt.Errorf("No networks are enabled")
	}

	var wg sync.WaitGroup
	var reactorsLock sync.Mutex
	reactors := make(map[string]*ircclient.Reactor)

	for _, name := range names {
		client, err := m.NewClient(name)
		if err != nil {
			return err
		}
		nc := m.Config.Networks[name]

		wg.Add(1)
		go func(name string, client *ircclient.Client) {
			defer wg.Done()

			socket := ircclient.NewSocket(nc.Address, nc.Port)
			log.Info().Str("network", name).Str("address", socket.Address()).Msg("connecting")
			err := socket.Connect(signalCtx)
			if err != nil {
				log.Error().Str("network", name).Err(err).Msg("could not connect")
				client.HandleClose(err)
				return
			}

			reactor := ircclient.NewReactor(name, socket, client.Dispatcher)
			reactorsLock.Lock()
			reactors[name] = reactor
			reactorsLock.Unlock()

			reactor.Run(runCtx)
		}(name, client)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-signalCtx.Done():
	}

	log.Info().Msg("shutting down")
	reactorsLock.Lock()
	for name, reactor := range reactors {
		client := m.Clients[name]
		callCtx, callCancel := context.WithTimeout(runCtx, QuitGrace)
		reactor.Call(callCtx, func() { client.Quit("Shutting down") })
		callCancel()
	}
	reactorsLock.Unlock()

	select {
	case <-finished:
	case <-time.After(QuitGrace):
		cancel()
		<-finished
	}
	return nil
}
