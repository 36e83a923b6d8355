// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package ircclient

import (
	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib/wireproto"
)

func loadServerCommands() {
	ServerCommands[wireproto.RPL_WELCOME] = ServerCommand{
		minParams: 1,
		handler: func(client *Client, msg *wireproto.Message) bool {
			client.Nick = msg.Args[0]
			client.HasRegistered = true
			log.Info().Str("network", client.Network).Str("nick", client.Nick).Msg("registered")
			return false
		},
	}

	ServerCommands[wireproto.RPL_ISUPPORT] = ServerCommand{
		minParams: 2,
		handler: func(client *Client, msg *wireproto.Message) bool {
			// <nick> <token>... :are supported by this server
			end := len(msg.Args)
			if msg.ColonArg {
				end--
			}
			supported := msg.Args[1:end]
			for _, token := range supported {
				err := client.Caps.SetCapability(token)
				if err != nil {
					log.Warn().Str("network", client.Network).Str("capability", token).Err(err).Msg("ignoring capability")
				}
			}
			return false
		},
	}

	ServerCommands[wireproto.ERR_NICKNAMEINUSE] = ServerCommand{
		minParams: 0,
		handler: func(client *Client, msg *wireproto.Message) bool {
			if client.HasRegistered {
				return true
			}

			nick := client.fallbackNick()
			if nick == "" {
				log.Error().Str("network", client.Network).Str("nick", client.Nick).Msg("no nickname left to try")
				client.Quit("No nickname available")
				return true
			}

			client.Nick = nick
			client.Send("NICK", client.Nick)
			return true
		},
	}

	ServerCommands["NICK"] = ServerCommand{
		minParams: 1,
		handler: func(client *Client, msg *wireproto.Message) bool {
			// If our nick just changed, update ourselves
			if msg.Nick != "" && client.IsMe(msg.Nick) {
				client.Nick = msg.Args[0]
			}
			return false
		},
	}

	ServerCommands["PING"] = ServerCommand{
		minParams: 1,
		handler: func(client *Client, msg *wireproto.Message) bool {
			client.Send("PONG", msg.Args[0])
			return true
		},
	}

	ServerCommands["ERROR"] = ServerCommand{
		minParams: 0,
		handler: func(client *Client, msg *wireproto.Message) bool {
			log.Warn().Str("network", client.Network).Str("reason", msg.Arg(0)).Msg("server sent ERROR")
			return false
		},
	}
}
