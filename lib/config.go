// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package pyirc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultPort is used for networks without a port.
	DefaultPort = 6667
	// DefaultSendQ is used for networks without a sendq.
	DefaultSendQ = "32k"
)

// NetworkConfig defines how to connect to one IRC network.
type NetworkConfig struct {
	Address  string
	Port     int
	Password string `yaml:",omitempty"`
	Nick     string
	Username string
	Realname string
	// Channels to join once registered, "#channel" or "#channel key".
	Channels []string `yaml:",omitempty"`
	// QuitOn is a command that makes us QUIT when the server sends it.
	QuitOn   string `yaml:"quit-on,omitempty"`
	SendQ    string `yaml:"sendq,omitempty"`
	Disabled bool   `yaml:",omitempty"`
}

// SendQBytes returns the sendq size in bytes.
func (nc *NetworkConfig) SendQBytes() (int, error) {
	sendq := nc.SendQ
	if sendq == "" {
		sendq = DefaultSendQ
	}
	n, err := bytefmt.ToBytes(sendq)
	if err != nil {
		return 0, fmt.Errorf("sendq %q: %w", nc.SendQ, err)
	}
	return int(n), nil
}

// ChannelKeys returns the channels to join, mapped to their keys.
func (nc *NetworkConfig) ChannelKeys() map[string]string {
	channels := make(map[string]string, len(nc.Channels))
	for _, entry := range nc.Channels {
		name, key, _ := strings.Cut(strings.TrimSpace(entry), " ")
		channels[name] = strings.TrimSpace(key)
	}
	return channels
}

// Config defines a configuration file for pyirc
type Config struct {
	Pyirc struct {
		DatabasePath string `yaml:"database-path"`
		LogLevel     string `yaml:"log-level,omitempty"`
		// Owner is the nick allowed to send us control commands.
		Owner string `yaml:",omitempty"`
		// Logging configures the message logger components, by name.
		Logging map[string]map[string]string `yaml:",omitempty"`
	}
	Networks map[string]*NetworkConfig
}

// LoadConfig returns a Config instance
func LoadConfig(filename string) (config *Config, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("Config file is empty")
	}

	err = config.normalise()
	if err != nil {
		return nil, err
	}
	return config, nil
}

// normalise checks the config, casefolds network names and fills in defaults.
func (config *Config) normalise() error {
	if config.Pyirc.DatabasePath == "" {
		return errors.New("No database-path is defined")
	}
	if len(config.Networks) == 0 {
		return errors.New("No networks are defined")
	}

	networks := make(map[string]*NetworkConfig, len(config.Networks))
	for name, nc := range config.Networks {
		if nc == nil {
			return fmt.Errorf("Network %s: no settings", name)
		}

		cfName, err := NetworkName(name)
		if err != nil {
			return fmt.Errorf("Network %s: bad name: %w", name, err)
		}
		if _, exists := networks[cfName]; exists {
			return fmt.Errorf("Network %s is defined twice", cfName)
		}

		if nc.Address == "" {
			return fmt.Errorf("Network %s: no address", name)
		}
		if nc.Port == 0 {
			nc.Port = DefaultPort
		}
		if nc.Port < 1 || nc.Port > 65535 {
			return fmt.Errorf("Network %s: port %d is not valid", name, nc.Port)
		}

		if nc.Nick, err = IrcName(nc.Nick, false); err != nil {
			return fmt.Errorf("Network %s: bad nick: %w", name, err)
		}
		if nc.Username == "" {
			nc.Username = nc.Nick
		}
		if nc.Username, err = IrcName(nc.Username, false); err != nil {
			return fmt.Errorf("Network %s: bad username: %w", name, err)
		}
		if nc.Realname == "" {
			nc.Realname = Ver
		}

		for channel := range nc.ChannelKeys() {
			if _, err := IrcName(channel, true); err != nil {
				return fmt.Errorf("Network %s: bad channel %q: %w", name, channel, err)
			}
		}

		if _, err := nc.SendQBytes(); err != nil {
			return fmt.Errorf("Network %s: %w", name, err)
		}

		networks[cfName] = nc
	}
	config.Networks = networks

	return nil
}

// Save writes the config to filename.
func (config *Config) Save(filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}
