// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyircComponentLogger

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib"
)

// Logger stores the chat lines seen by the manager.
type Logger struct {
	stores []MessageDatastore
}

// NewStore returns the store for the given logger type, or nil if the type
// is unknown.
func NewStore(logType string, logConf map[string]string) (MessageDatastore, error) {
	switch logType {
	case "file":
		return NewFileMessageDatastore(logConf), nil
	case "sqlite":
		return NewSqliteMessageDatastore(logConf)
	}
	return nil, nil
}

// Run starts the loggers named in the config and hooks them up to the
// manager.
func Run(manager *pyirc.Manager) (*Logger, error) {
	logger := &Logger{}

	var logTypes []string
	for logType := range manager.Config.Pyirc.Logging {
		logTypes = append(logTypes, logType)
	}
	sort.Strings(logTypes)

	for _, logType := range logTypes {
		store, err := NewStore(logType, manager.Config.Pyirc.Logging[logType])
		if err != nil {
			logger.Close()
			return nil, err
		}
		if store == nil {
			log.Warn().Str("logger", logType).Msg("unknown message logger")
			continue
		}
		if !store.SupportsStore() {
			log.Warn().Str("logger", logType).Msg("message logger can't store messages, check its config")
			continue
		}

		log.Info().Str("logger", logType).Msg("starting message logger")
		logger.stores = append(logger.stores, store)
	}

	manager.Bus.Register(pyirc.HookIrcLineName, logger.onMessage)
	return logger, nil
}

func (logger *Logger) onMessage(hook interface{}) {
	event := hook.(*pyirc.HookIrcLine)

	for _, store := range logger.stores {
		store.Store(event)
	}
}

// Close closes every store.
func (logger *Logger) Close() {
	for _, store := range logger.stores {
		err := store.Close()
		if err != nil {
			log.Error().Err(err).Msg("could not close message logger")
		}
	}
}
