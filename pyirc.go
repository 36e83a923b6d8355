// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib"
	"github.com/Screwperman/pyirc/lib/capabilities"
	"github.com/Screwperman/pyirc/lib/logging"
	"github.com/Screwperman/pyirc/lib/setup"

	"github.com/Screwperman/pyirc/lib/datastores/buntdb"

	// Different parts of the project acting independantly
	"github.com/Screwperman/pyirc/lib/components/componentLoader"
	"github.com/Screwperman/pyirc/lib/components/messageLogger"
)

func main() {
	usage := `pyirc.

pyirc is an IRC client.

Usage:
	pyirc init [--conf <filename>]
	pyirc connect [--conf <filename>]
	pyirc upgrade-db [--conf <filename>]
	pyirc isupport <token>...
	pyirc show-caps <network> [--conf <filename>]
	pyirc history <network> <buffer> [--num <lines>] [--conf <filename>]
	pyirc -h | --help
	pyirc --version

Options:
	--conf <filename>  Configuration file to use [default: pyirc.yaml].
	--num <lines>      How many lines to show [default: 50].
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.Parse(usage, nil, true, pyirc.SemVer, false)
	configfile, _ := arguments["--conf"].(string)

	var err error
	switch {
	case arguments["init"].(bool):
		logging.ConfigureRuntime("")
		err = ircsetup.InitialSetup(configfile)

	case arguments["isupport"].(bool):
		logging.ConfigureRuntime("")
		err = showTokens(arguments["<token>"].([]string))

	case arguments["connect"].(bool):
		err = connect(loadConfig(configfile))

	case arguments["upgrade-db"].(bool):
		config := loadConfig(configfile)
		err = pyirc.UpgradeDB(config.Pyirc.DatabasePath)
		if err == nil {
			ircsetup.Note(fmt.Sprintf("Database %s is on schema %s.", config.Pyirc.DatabasePath, pyirc.LatestDbSchema))
		}

	case arguments["show-caps"].(bool):
		err = showCaps(loadConfig(configfile), arguments["<network>"].(string))

	case arguments["history"].(bool):
		var num int
		num, err = strconv.Atoi(arguments["--num"].(string))
		if err != nil {
			err = fmt.Errorf("--num: %w", err)
			break
		}
		err = showHistory(loadConfig(configfile), arguments["<network>"].(string), arguments["<buffer>"].(string), num)
	}

	if err != nil {
		ircsetup.Error(err.Error())
		os.Exit(1)
	}
}

// loadConfig loads the config and sets up logging from it, exiting if it
// can't.
func loadConfig(configfile string) *pyirc.Config {
	config, err := pyirc.LoadConfig(configfile)
	if err != nil {
		ircsetup.Error(fmt.Sprintf("Config file did not load successfully: %s", err.Error()))
		os.Exit(1)
	}

	logging.ConfigureRuntime(config.Pyirc.LogLevel)
	return config
}

func connect(config *pyirc.Config) error {
	data := &pyircDataStoreBuntdb.DataStore{}
	manager, err := pyirc.NewManager(config, data)
	if err != nil {
		return err
	}
	defer data.Close()

	fmt.Println("Starting", ircsetup.CbCyan("pyirc"))

	// Start the different components
	components, err := pyircComponentLoader.Run(manager)
	if err != nil {
		return err
	}
	defer components.Close()

	return manager.Run(context.Background())
}

func showTokens(tokens []string) error {
	caps := capabilities.New()
	failed := false
	for _, token := range tokens {
		if err := caps.SetCapability(token); err != nil {
			ircsetup.Warn(err.Error())
			failed = true
		}
	}

	caps.Table(os.Stdout)
	if failed {
		return errors.New("some tokens were rejected")
	}
	return nil
}

func showCaps(config *pyirc.Config, network string) error {
	name, err := pyirc.NetworkName(network)
	if err != nil {
		return err
	}

	data := &pyircDataStoreBuntdb.DataStore{}
	manager, err := pyirc.NewManager(config, data)
	if err != nil {
		return err
	}
	defer data.Close()

	if _, exists := config.Networks[name]; !exists {
		cached, err := data.Networks()
		if err != nil {
			return err
		}
		return fmt.Errorf("Network %s is not defined, networks with cached capabilities: %s", name, strings.Join(cached, ", "))
	}

	tokens, err := data.GetISupport(name)
	if err != nil {
		return err
	}
	if tokens == nil {
		ircsetup.Note(fmt.Sprintf("Nothing is cached for %s yet, showing the defaults.", name))
	}

	caps, err := manager.CachedCapabilities(name)
	if err != nil {
		return err
	}
	caps.Table(os.Stdout)
	return nil
}

func showHistory(config *pyirc.Config, network, buffer string, num int) error {
	name, err := pyirc.NetworkName(network)
	if err != nil {
		return err
	}

	logConf, exists := config.Pyirc.Logging["sqlite"]
	if !exists {
		return errors.New("the sqlite message logger is not configured")
	}
	store, err := pyircComponentLogger.NewSqliteMessageDatastore(logConf)
	if err != nil {
		return err
	}
	defer store.Close()

	if !store.SupportsRetrieve() {
		return errors.New("pyirc was built without sqlite support, rebuild with -tags sqlite")
	}

	for _, message := range store.GetBeforeTime(name, buffer, time.Now(), num) {
		line, err := message.Line()
		if err != nil {
			log.Warn().Str("network", name).Err(err).Msg("could not show message")
			continue
		}
		fmt.Println(strings.TrimRight(line, "\r\n"))
	}
	return nil
}
