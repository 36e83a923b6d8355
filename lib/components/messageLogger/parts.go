// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyircComponentLogger

import (
	"strings"

	"github.com/ergochat/irc-go/ircfmt"

	"github.com/Screwperman/pyirc/lib"
)

const (
	TYPE_MESSAGE = 1
	TYPE_ACTION  = 2
	TYPE_NOTICE  = 3
	TYPE_JOIN    = 4
	TYPE_PART    = 5
	TYPE_KICK    = 6
)

// messageParts is what gets logged of one line.
type messageParts struct {
	from        string
	buffer      string
	messageType int
	line        string
}

// extractMessageParts picks the loggable parts out of the event. ok is false
// for lines we don't log, such as CTCPs other than ACTION.
func extractMessageParts(event *pyirc.HookIrcLine) (parts messageParts, ok bool) {
	message := event.Message
	parts.from = message.Nick
	if parts.from == "" {
		parts.from = message.Hostmask
	}
	parts.buffer = message.Arg(0)

	switch message.Command {
	case "PRIVMSG":
		parts.line = message.Arg(1)
		if strings.HasPrefix(parts.line, "\x01ACTION ") {
			parts.messageType = TYPE_ACTION
			parts.line = strings.TrimSuffix(parts.line[len("\x01ACTION "):], "\x01")
		} else if !strings.HasPrefix(parts.line, "\x01") {
			parts.messageType = TYPE_MESSAGE
		} else {
			return parts, false
		}

	case "NOTICE":
		parts.line = message.Arg(1)
		if strings.HasPrefix(parts.line, "\x01") {
			return parts, false
		}
		parts.messageType = TYPE_NOTICE

	case "JOIN":
		parts.messageType = TYPE_JOIN

	case "PART":
		parts.messageType = TYPE_PART
		parts.line = message.Arg(1)

	case "KICK":
		parts.messageType = TYPE_KICK
		parts.from = message.Arg(1)
		parts.line = message.Nick + " " + message.Arg(2)

	default:
		return parts, false
	}

	if parts.buffer == "" {
		return parts, false
	}

	// private messages go in the buffer of whoever we're talking to
	if event.Client != nil && !event.Client.Caps.IsChannel(parts.buffer) && event.Client.IsMe(parts.buffer) {
		parts.buffer = parts.from
	}

	parts.from = strings.ToLower(parts.from)
	parts.buffer = strings.ToLower(parts.buffer)
	parts.line = ircfmt.Strip(parts.line)
	return parts, true
}

// format renders the parts as a human readable log line.
func (parts messageParts) format() string {
	switch parts.messageType {
	case TYPE_ACTION:
		return "* " + parts.from + " " + parts.line
	case TYPE_NOTICE:
		return "-" + parts.from + "- " + parts.line
	case TYPE_JOIN:
		return "* " + parts.from + " has joined " + parts.buffer
	case TYPE_PART:
		return strings.TrimSpace("* " + parts.from + " has left " + parts.buffer + " " + parts.line)
	case TYPE_KICK:
		kicker, reason, _ := strings.Cut(parts.line, " ")
		return "* " + parts.from + " has been kicked from " + parts.buffer + " by " + kicker + " (" + reason + ")"
	default:
		return "<" + parts.from + "> " + parts.line
	}
}
