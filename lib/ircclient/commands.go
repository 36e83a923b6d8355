// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package ircclient

import (
	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib/wireproto"
)

// ServerCommands holds all commands to be listened for from the server
var ServerCommands map[string]ServerCommand

func init() {
	ServerCommands = make(map[string]ServerCommand)
	loadServerCommands()
}

// ServerCommand is a command we handle internally. The handler returns true
// to stop the message reaching the listeners.
type ServerCommand struct {
	handler   func(client *Client, msg *wireproto.Message) bool
	minParams int
}

// Run runs this command with the given client/message.
func (cmd *ServerCommand) Run(client *Client, msg *wireproto.Message) bool {
	if len(msg.Args) < cmd.minParams {
		log.Warn().Str("network", client.Network).Str("line", msg.String()).Msg("not enough parameters sent from the server")
		return false
	}
	return cmd.handler(client, msg)
}
