// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package ircclient

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib/capabilities"
	"github.com/Screwperman/pyirc/lib/wireproto"
)

// ErrSendQExceeded is returned by Send when the line doesn't fit in the
// send queue.
var ErrSendQExceeded = errors.New("sendq exceeded")

// Listener is called with each message of the command it listens to.
type Listener func(msg *wireproto.Message)

/**
 * Client is one IRC connection's session. It lives on the goroutine
 * running its Reactor.
 */
type Client struct {
	Network  string
	Nick     string
	Username string
	Realname string
	Password string
	// QuitOn makes the client send QUIT when it sees this command.
	QuitOn      string
	QuitMessage string
	// SendQ caps the bytes waiting to be written, zero for no cap.
	SendQ int

	Caps          *capabilities.ServerCapabilities
	HasRegistered bool
	// Err is why the connection closed, set before the CLOSED listeners run.
	Err error

	CommandListeners map[string][]Listener
	Dispatcher       *Dispatcher
}

// NewClient returns a Client with the default capabilities.
func NewClient(network, nick, username, realname string) *Client {
	client := &Client{
		Network:          network,
		Nick:             nick,
		Username:         username,
		Realname:         realname,
		QuitMessage:      "Bye",
		Caps:             capabilities.New(),
		CommandListeners: make(map[string][]Listener),
	}
	client.Dispatcher = NewDispatcher(client)
	return client
}

// HandleCommand registers fn for the given command. "ALL" gets every
// message, "CLOSED" is called once the connection is gone.
func (client *Client) HandleCommand(command string, fn Listener) {
	command = strings.ToUpper(command)
	client.CommandListeners[command] = append(client.CommandListeners[command], fn)
}

// HandleConnect registers with the server.
func (client *Client) HandleConnect() {
	log.Info().Str("network", client.Network).Str("nick", client.Nick).Msg("connected, registering")

	if client.Password != "" {
		client.Send("PASS", client.Password)
	}
	client.Send("NICK", client.Nick)
	client.Send("USER", client.Username, "0", "*", client.Realname)
}

// HandleLine runs our internal handlers, then the listeners.
func (client *Client) HandleLine(message wireproto.Message) {
	log.Debug().Str("network", client.Network).Str("line", message.String()).Msg("<-")

	// Run our internal command handlers first
	command, commandExists := ServerCommands[message.Command]
	if commandExists {
		shouldHalt := command.Run(client, &message)
		if shouldHalt {
			return
		}
	}

	for _, handler := range client.CommandListeners[message.Command] {
		handler(&message)
	}
	for _, handler := range client.CommandListeners["ALL"] {
		handler(&message)
	}

	if client.QuitOn != "" && strings.EqualFold(message.Command, client.QuitOn) {
		client.Quit(client.QuitMessage)
	}
}

// HandleClose resets the session and calls the CLOSED listeners.
func (client *Client) HandleClose(err error) {
	client.HasRegistered = false
	client.Err = err

	if err != nil {
		log.Warn().Str("network", client.Network).Err(err).Msg("connection lost")
	} else {
		log.Info().Str("network", client.Network).Msg("connection closed")
	}

	closed := &wireproto.Message{Command: "CLOSED", Args: []string{}}
	for _, handler := range client.CommandListeners["CLOSED"] {
		handler(closed)
	}
}

// Send encodes the command and queues it for writing.
func (client *Client) Send(command string, args ...string) error {
	line, err := wireproto.Encode(command, args...)
	if err != nil {
		log.Error().Str("network", client.Network).Str("command", command).Err(err).Msg("could not encode line")
		return err
	}

	if client.SendQ > 0 && client.Dispatcher.Pending()+len(line) > client.SendQ {
		log.Warn().Str("network", client.Network).Int("sendq", client.SendQ).Msg("dropping line, sendq is full")
		return ErrSendQExceeded
	}

	if len(line) > wireproto.MaxLineLength {
		log.Warn().Str("network", client.Network).Str("command", command).Int("length", len(line)).Msg("line is too long, the server may cut it")
	}

	log.Debug().Str("network", client.Network).Str("line", strings.TrimRight(line, "\r\n")).Msg("->")
	client.Dispatcher.Output(line)
	return nil
}

// JoinChannel joins the channel, key may be blank.
func (client *Client) JoinChannel(channel string, key string) error {
	if key == "" {
		return client.Send("JOIN", channel)
	}
	return client.Send("JOIN", channel, key)
}

// Quit asks the server to close the connection.
func (client *Client) Quit(message string) error {
	return client.Send("QUIT", message)
}

// IsMe returns true if nick is our current nickname.
func (client *Client) IsMe(nick string) bool {
	return client.casefold(nick) == client.casefold(client.Nick)
}

// casefold lowercases name the way the server's CASEMAPPING does.
func (client *Client) casefold(name string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, name)
}

// fallbackNick returns the next nick to try after ours was taken, blank
// when there is nothing left to try.
func (client *Client) fallbackNick() string {
	nick := client.Nick + "_"
	if maxLen, limited := client.Caps.NickLen(); limited && 0 < maxLen && utf8.RuneCountInString(nick) > maxLen {
		nick = string([]rune(nick)[:maxLen-1]) + "_"
	}
	if nick == client.Nick {
		return ""
	}
	return nick
}
