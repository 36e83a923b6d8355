// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyirc

import (
	"github.com/Screwperman/pyirc/lib/ircclient"
	"github.com/Screwperman/pyirc/lib/wireproto"
)

// HookEmitter calls the functions registered for a hook. Register everything
// before the manager starts, hooks are dispatched from every network's
// goroutine.
type HookEmitter struct {
	Registered map[string][]func(interface{})
}

func MakeHookEmitter() HookEmitter {
	return HookEmitter{
		Registered: make(map[string][]func(interface{})),
	}
}

func (hooks *HookEmitter) Dispatch(hookName string, data interface{}) {
	for _, p := range hooks.Registered[hookName] {
		p(data)
	}
}

func (hooks *HookEmitter) Register(hookName string, p func(interface{})) {
	hooks.Registered[hookName] = append(hooks.Registered[hookName], p)
}

// HookIrcLineName is dispatched with a *HookIrcLine for every line a
// server sends.
var HookIrcLineName = "irc.line"

type HookIrcLine struct {
	Network string
	Client  *ircclient.Client
	Message *wireproto.Message
}

// HookIrcClosedName is dispatched with a *HookIrcClosed when a connection
// is gone. The control component shows the reason in its network list.
var HookIrcClosedName = "irc.closed"

type HookIrcClosed struct {
	Network string
	Err     error
}

// HookISupportName is dispatched with a *HookISupport when a server changed
// its capabilities, after the tokens were saved.
var HookISupportName = "irc.isupport"

type HookISupport struct {
	Network string
	Client  *ircclient.Client
	Tokens  []string
}
