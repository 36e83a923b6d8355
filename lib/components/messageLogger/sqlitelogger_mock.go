// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

//go:build !sqlite

package pyircComponentLogger

import (
	"time"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/Screwperman/pyirc/lib"
)

// SqliteMessageDatastore does nothing, build with -tags sqlite to get the
// real one.
type SqliteMessageDatastore struct {
}

func (ds *SqliteMessageDatastore) SupportsStore() bool {
	return false
}
func (ds *SqliteMessageDatastore) SupportsRetrieve() bool {
	return false
}
func NewSqliteMessageDatastore(config map[string]string) (*SqliteMessageDatastore, error) {
	ds := &SqliteMessageDatastore{}
	return ds, nil
}

func (ds *SqliteMessageDatastore) Store(event *pyirc.HookIrcLine) {
}

func (ds *SqliteMessageDatastore) GetBeforeTime(string, string, time.Time, int) []*ircmsg.Message {
	return []*ircmsg.Message{}
}

func (ds *SqliteMessageDatastore) Close() error {
	return nil
}
