// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package wireproto encodes and decodes lines of the IRC client protocol.
package wireproto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// EncodeArgumentError is returned by Encode when an argument cannot be
// represented on the wire. Only the final argument may contain spaces.
type EncodeArgumentError struct {
	Index  int
	Arg    string
	Reason string
}

func (e *EncodeArgumentError) Error() string {
	return fmt.Sprintf("cannot encode argument %d (%q): %s", e.Index, e.Arg, e.Reason)
}

// Encode builds a protocol line from the given command and arguments.
//
// The final argument is always sent as a trailing argument, even when it is
// the only one, which gives "JOIN  :#chan\r\n". Servers accept that form.
func Encode(command string, args ...string) (string, error) {
	command = strings.ToUpper(command)
	if len(args) == 0 {
		return command + "\r\n", nil
	}

	args = utf8ize(args)

	last := len(args) - 1
	for i, arg := range args {
		if strings.ContainsAny(arg, "\r\n\x00") {
			return "", &EncodeArgumentError{Index: i, Arg: arg, Reason: "contains a line break or NUL"}
		}
		if i == last {
			break
		}
		switch {
		case strings.Contains(arg, " "):
			return "", &EncodeArgumentError{Index: i, Arg: arg, Reason: "only the last argument may contain spaces"}
		case arg == "":
			return "", &EncodeArgumentError{Index: i, Arg: arg, Reason: "only the last argument may be empty"}
		case arg[0] == ':':
			return "", &EncodeArgumentError{Index: i, Arg: arg, Reason: "only the last argument may start with a colon"}
		}
	}

	var b strings.Builder
	b.WriteString(command)
	b.WriteByte(' ')
	b.WriteString(strings.Join(args[:last], " "))
	b.WriteString(" :")
	b.WriteString(args[last])
	b.WriteString("\r\n")
	return b.String(), nil
}

// utf8ize returns args with every non-UTF-8 argument transcoded from
// ISO-8859-1. The input slice is left untouched.
func utf8ize(args []string) []string {
	out := args
	copied := false
	for i, arg := range args {
		if utf8.ValidString(arg) {
			continue
		}
		if !copied {
			out = append([]string(nil), args...)
			copied = true
		}
		decoded, err := charmap.ISO8859_1.NewDecoder().String(arg)
		if err != nil {
			decoded = strings.ToValidUTF8(arg, string(utf8.RuneError))
		}
		out[i] = decoded
	}
	return out
}
