// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package wireproto

// Numerics the client cares about. Names follow RFC 1459/2812 and the
// RPL_ISUPPORT draft.
const (
	RPL_WELCOME       = "001"
	RPL_YOURHOST      = "002"
	RPL_CREATED       = "003"
	RPL_MYINFO        = "004"
	RPL_ISUPPORT      = "005"
	RPL_LUSERCLIENT   = "251"
	RPL_LUSEROP       = "252"
	RPL_LUSERCHANNELS = "254"
	RPL_LUSERME       = "255"
	RPL_MOTD          = "372"
	RPL_MOTDSTART     = "375"
	RPL_ENDOFMOTD     = "376"
	ERR_UNKNOWNERROR  = "400"
	ERR_NOMOTD        = "422"
	ERR_NICKNAMEINUSE = "433"
)

// MaxLineLength is the maximum protocol line length, CRLF included.
const MaxLineLength = 512
