// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyircComponentLoader

import (
	"github.com/Screwperman/pyirc/lib"

	// Different parts of the project acting independantly
	"github.com/Screwperman/pyirc/lib/components/control"
	"github.com/Screwperman/pyirc/lib/components/messageLogger"
)

// Components are the running components, Close them once the manager has
// stopped.
type Components struct {
	Control *pyircComponentControl.Control
	Logger  *pyircComponentLogger.Logger
}

func Run(manager *pyirc.Manager) (*Components, error) {
	logger, err := pyircComponentLogger.Run(manager)
	if err != nil {
		return nil, err
	}

	return &Components{
		Control: pyircComponentControl.Run(manager),
		Logger:  logger,
	}, nil
}

func (components *Components) Close() {
	components.Logger.Close()
}
