package wireproto

import (
	"errors"
	"strings"
	"testing"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		want    string
	}{
		{"no args", "notice", nil, "NOTICE\r\n"},
		{"single arg keeps two spaces", "join", []string{"#bleh"}, "JOIN  :#bleh\r\n"},
		{"two args", "privmsg", []string{"arg1", "arg2"}, "PRIVMSG arg1 :arg2\r\n"},
		{"trailing with spaces", "privmsg", []string{"arg1", "arg2 with spaces"}, "PRIVMSG arg1 :arg2 with spaces\r\n"},
		{"utf-8 passes through", "PRIVMSG", []string{"arg1", "arg2", "arg3 with €"}, "PRIVMSG arg1 arg2 :arg3 with \xe2\x82\xac\r\n"},
		{"empty trailing", "topic", []string{"#foo", ""}, "TOPIC #foo :\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.command, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Latin1IsTranscoded(t *testing.T) {
	got, err := Encode("privmsg", "#foo", "caf\xe9")
	require.NoError(t, err)
	assert.Equal(t, "PRIVMSG #foo :caf\xc3\xa9\r\n", got)
}

func TestEncode_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		idx  int
	}{
		{"space in middle arg", []string{"arg1 with spaces", "arg2"}, 0},
		{"empty middle arg", []string{"", "arg2"}, 0},
		{"colon middle arg", []string{"a", ":b", "c"}, 1},
		{"newline in trailing", []string{"#foo", "hi\r\nQUIT"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Encode("privmsg", tt.args...)
			assert.Empty(t, line)

			var argErr *EncodeArgumentError
			require.True(t, errors.As(err, &argErr), "got %v", err)
			assert.Equal(t, tt.idx, argErr.Index)
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		line string
		want Message
	}{
		{
			line: "PRIVMSG foo bar",
			want: Message{Command: "PRIVMSG", Args: []string{"foo", "bar"}},
		},
		{
			line: "PRIVMSG foo :bar baz",
			want: Message{Command: "PRIVMSG", Args: []string{"foo", "bar baz"}, ColonArg: true},
		},
		{
			line: ":irc.server.com 353 foo :bar baz",
			want: Message{
				Hostmask: "irc.server.com", Host: "irc.server.com",
				Command: "353", Args: []string{"foo", "bar baz"}, ColonArg: true,
			},
		},
		{
			line: ":Dave`!dave@natulte.net PRIVMSG #foo :Hi !",
			want: Message{
				Hostmask: "Dave`!dave@natulte.net", Nick: "Dave`", User: "dave", Host: "natulte.net",
				Command: "PRIVMSG", Args: []string{"#foo", "Hi !"}, ColonArg: true,
			},
		},
		{
			line: "ping :irc.server.com",
			want: Message{Command: "PING", Args: []string{"irc.server.com"}, ColonArg: true},
		},
		{
			line: "",
			want: Message{Args: []string{}},
		},
		{
			line: ":only.a.prefix",
			want: Message{Hostmask: "only.a.prefix", Host: "only.a.prefix", Args: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.line))
		})
	}
}

func TestSplitMask(t *testing.T) {
	tests := []struct {
		mask, nick, user, host string
	}{
		{"nick!user@host", "nick", "user", "host"},
		{"user@host", "", "user", "host"},
		{"server.name", "", "", "server.name"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		nick, user, host := SplitMask(tt.mask)
		assert.Equal(t, tt.nick, nick, tt.mask)
		assert.Equal(t, tt.user, user, tt.mask)
		assert.Equal(t, tt.host, host, tt.mask)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]string{
		{"QUIT"},
		{"join", "#bleh"},
		{"privmsg", "#foo", "hello there, how : are you"},
		{"user", "bleh", "0", "*", "nobody at all"},
		{"mode", "#foo", "+o", "Dave`"},
		{"notice", "nick", ""},
	}

	for _, c := range cases {
		t.Run(c[0], func(t *testing.T) {
			line, err := Encode(c[0], c[1:]...)
			require.NoError(t, err)

			msg := Decode(strings.TrimSuffix(line, "\r\n"))
			assert.Equal(t, strings.ToUpper(c[0]), msg.Command)
			assert.Equal(t, c[1:], msg.Args)
			assert.Equal(t, len(c) > 1, msg.ColonArg)
		})
	}
}

// Other IRC implementations must read our lines the same way we do.
func TestEncode_ParsesWithIrcmsg(t *testing.T) {
	line, err := Encode("privmsg", "#foo", "Hi ! how are you")
	require.NoError(t, err)

	parsed, err := ircmsg.ParseLine(strings.TrimSuffix(line, "\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "PRIVMSG", parsed.Command)
	assert.Equal(t, []string{"#foo", "Hi ! how are you"}, parsed.Params)
}

func TestMessageArg(t *testing.T) {
	msg := Decode("PRIVMSG #foo :hi")
	assert.Equal(t, "#foo", msg.Arg(0))
	assert.Equal(t, "hi", msg.Arg(1))
	assert.Equal(t, "", msg.Arg(2))
	assert.Equal(t, "", msg.Arg(-1))
}
