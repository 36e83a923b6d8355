// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package wireproto

import (
	"fmt"
	"strings"
	"unicode"
)

// Message is a single decoded protocol line.
type Message struct {
	// Hostmask is the raw prefix without its leading colon. It may be blank.
	Hostmask string
	Nick     string
	User     string
	Host     string

	Command string
	Args    []string

	// ColonArg is true if the last argument was sent as a trailing argument.
	ColonArg bool
}

// Arg returns the argument at idx, or an empty string if there is none.
func (msg Message) Arg(idx int) string {
	if idx < 0 || len(msg.Args) <= idx {
		return ""
	}
	return msg.Args[idx]
}

func (msg Message) String() string {
	return fmt.Sprintf("Hostmask [%s] Command [%s] Args%q", msg.Hostmask, msg.Command, msg.Args)
}

// Decode parses a protocol line without its trailing CRLF. It never fails:
// missing pieces are left blank and it's up to the caller to reject them.
func Decode(line string) Message {
	var msg Message

	if strings.HasPrefix(line, ":") {
		end := strings.IndexFunc(line, unicode.IsSpace)
		if end == -1 {
			msg.Hostmask = line[1:]
			line = ""
		} else {
			msg.Hostmask = line[1:end]
			line = strings.TrimLeftFunc(line[end:], unicode.IsSpace)
		}
		msg.Nick, msg.User, msg.Host = SplitMask(msg.Hostmask)
	}

	// the trailing argument may hold spaces, so split it off first
	head, trailing, found := strings.Cut(line, " :")
	msg.ColonArg = found

	fields := strings.Fields(head)
	if 0 < len(fields) {
		msg.Command = strings.ToUpper(fields[0])
		fields = fields[1:]
	}
	msg.Args = fields
	if found {
		msg.Args = append(msg.Args, trailing)
	}
	if msg.Args == nil {
		msg.Args = []string{}
	}

	return msg
}

// SplitMask splits a nick!user@host mask into its parts. Each separator is
// optional; whatever follows the last present separator is the host.
func SplitMask(mask string) (nick, user, host string) {
	if pos := strings.Index(mask, "!"); pos > -1 {
		nick = mask[:pos]
		mask = mask[pos+1:]
	}

	if pos := strings.Index(mask, "@"); pos > -1 {
		user = mask[:pos]
		mask = mask[pos+1:]
	}

	host = mask
	return nick, user, host
}
