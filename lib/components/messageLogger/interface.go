// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyircComponentLogger

import (
	"time"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/Screwperman/pyirc/lib"
)

type MessageDatastore interface {
	Store(hookEvent *pyirc.HookIrcLine)
	// GetBeforeTime returns up to num messages sent to buffer before
	// timeFrom, oldest first, with a server-time tag.
	GetBeforeTime(networkID string, bufferName string, timeFrom time.Time, num int) []*ircmsg.Message
	Close() error

	SupportsStore() bool
	SupportsRetrieve() bool
}
