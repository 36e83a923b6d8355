// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

// Package pyircComponentControl answers the owner's private messages with
// information about our connections.
package pyircComponentControl

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib"
)

// Control handles the owner's commands.
type Control struct {
	manager *pyirc.Manager

	// status of each network, hooks arrive from every network's goroutine
	statusLock sync.Mutex
	tokens     map[string]int
	lastError  map[string]string
}

func Run(manager *pyirc.Manager) *Control {
	control := &Control{
		manager:   manager,
		tokens:    make(map[string]int),
		lastError: make(map[string]string),
	}
	if manager.Config.Pyirc.Owner == "" {
		return control
	}

	manager.Bus.Register(pyirc.HookIrcLineName, control.onMessage)
	manager.Bus.Register(pyirc.HookISupportName, control.onISupport)
	manager.Bus.Register(pyirc.HookIrcClosedName, control.onClosed)
	return control
}

func (control *Control) onISupport(hook interface{}) {
	event := hook.(*pyirc.HookISupport)

	control.statusLock.Lock()
	defer control.statusLock.Unlock()
	control.tokens[event.Network] = len(event.Tokens)
}

func (control *Control) onClosed(hook interface{}) {
	event := hook.(*pyirc.HookIrcClosed)

	reason := "closed"
	if event.Err != nil {
		reason = event.Err.Error()
	}

	control.statusLock.Lock()
	defer control.statusLock.Unlock()
	control.lastError[event.Network] = reason
}

func (control *Control) onMessage(hook interface{}) {
	event := hook.(*pyirc.HookIrcLine)
	msg := event.Message
	client := event.Client

	if msg.Command != "PRIVMSG" || len(msg.Args) < 2 || !client.IsMe(msg.Args[0]) {
		return
	}
	if msg.Nick == "" || !strings.EqualFold(msg.Nick, control.manager.Config.Pyirc.Owner) {
		return
	}

	control.handle(event, strings.Fields(msg.Args[1]))
}

func (control *Control) handle(event *pyirc.HookIrcLine, params []string) {
	if len(params) == 0 {
		return
	}
	command := strings.ToLower(params[0])
	log.Debug().Str("network", event.Network).Str("command", command).Msg("control command")

	switch command {
	case "caps":
		commandCaps(event)
	case "networks":
		control.commandListNetworks(event)
	case "version":
		event.Client.Send("NOTICE", event.Message.Nick, pyirc.Ver)
	default:
		event.Client.Send("NOTICE", event.Message.Nick, "Commands: caps, networks, version")
	}
}

func commandCaps(event *pyirc.HookIrcLine) {
	sendLines(event.Client, event.Message.Nick, "NOTICE", event.Client.Caps.TableLines())
}

func (control *Control) commandListNetworks(event *pyirc.HookIrcLine) {
	table := NewTable()
	table.SetHeader([]string{"Name", "Address", "Enabled", "Tokens", "Closed"})

	var names []string
	for name := range control.manager.Config.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	control.statusLock.Lock()
	for _, name := range names {
		nc := control.manager.Config.Networks[name]
		enabled := "Yes"
		if nc.Disabled {
			enabled = "No"
		}
		closed := control.lastError[name]
		if closed == "" {
			closed = "-"
		}
		table.Append([]string{name, nc.Address + ":" + strconv.Itoa(nc.Port), enabled, strconv.Itoa(control.tokens[name]), closed})
	}
	control.statusLock.Unlock()

	sendLines(event.Client, event.Message.Nick, "NOTICE", table.RenderToLines())
}
