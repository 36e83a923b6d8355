package ircclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Screwperman/pyirc/lib/wireproto"
)

// recorder is a Handler keeping everything it is given.
type recorder struct {
	connects int
	lines    []wireproto.Message
	closes   []error
}

func (r *recorder) HandleConnect()                 { r.connects++ }
func (r *recorder) HandleLine(m wireproto.Message) { r.lines = append(r.lines, m) }
func (r *recorder) HandleClose(err error)          { r.closes = append(r.closes, err) }

func (r *recorder) commands() []string {
	commands := make([]string, len(r.lines))
	for i, line := range r.lines {
		commands[i] = line.Command
	}
	return commands
}

// stingyWriter accepts only as many bytes per Write as the next entry in
// accept allows.
type stingyWriter struct {
	accept  []int
	written []byte
	calls   int
}

func (w *stingyWriter) Write(p []byte) (int, error) {
	n := w.accept[w.calls%len(w.accept)]
	if n > len(p) {
		n = len(p)
	}
	w.calls++
	w.written = append(w.written, p[:n]...)
	return n, nil
}

func TestFeed_Reassembly(t *testing.T) {
	r := new(recorder)
	d := NewDispatcher(r)

	for _, chunk := range []string{"a\r\n", "bc\r\n", "ab", "cd\r", "\nef\r\n"} {
		d.Feed([]byte(chunk))
	}

	assert.Equal(t, []string{"A", "BC", "ABCD", "EF"}, r.commands())
}

func TestFeed_DelimiterSplitOnFirstLine(t *testing.T) {
	r := new(recorder)
	d := NewDispatcher(r)

	d.Feed([]byte(":irc.example.net NOTICE * :hello\r"))
	assert.Empty(t, r.lines)

	d.Feed([]byte("\nPING :token\r\n"))
	require.Len(t, r.lines, 2)
	assert.Equal(t, "NOTICE", r.lines[0].Command)
	assert.Equal(t, []string{"*", "hello"}, r.lines[0].Args)
	assert.Equal(t, "PING", r.lines[1].Command)
	assert.Equal(t, []string{"token"}, r.lines[1].Args)
}

func TestFeed_ByteAtATime(t *testing.T) {
	input := ":nick!user@host PRIVMSG #chan :hi there\r\nPING :x\r\n:s 005 me NICKLEN=16 :are supported\r\n"

	r := new(recorder)
	d := NewDispatcher(r)
	for i := 0; i < len(input); i++ {
		d.Feed([]byte{input[i]})
	}

	assert.Equal(t, []string{"PRIVMSG", "PING", "005"}, r.commands())
	assert.Equal(t, "hi there", r.lines[0].Arg(1))
	assert.Equal(t, "nick", r.lines[0].Nick)
}

func TestFeed_ManyLinesInOneChunk(t *testing.T) {
	r := new(recorder)
	d := NewDispatcher(r)

	d.Feed([]byte("ONE\r\nTWO\r\nTHREE\r\nFOU"))
	assert.Equal(t, []string{"ONE", "TWO", "THREE"}, r.commands())

	d.Feed([]byte("R\r\n"))
	assert.Equal(t, []string{"ONE", "TWO", "THREE", "FOUR"}, r.commands())
}

func TestFlush_PartialWrites(t *testing.T) {
	d := NewDispatcher(new(recorder))
	d.Output("abcd")
	d.Output("efgh")
	assert.Equal(t, 8, d.Pending())

	w := &stingyWriter{accept: []int{3, 1, 3, 1}}
	for _, want := range []int{3, 1, 3, 1} {
		require.True(t, d.Writable())
		n, err := d.Flush(w, 512)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	assert.False(t, d.Writable())
	assert.Equal(t, 0, d.Pending())
	assert.Equal(t, 4, w.calls)
	assert.Equal(t, "abcdefgh", string(w.written))
}

func TestFlush_MaxBytes(t *testing.T) {
	d := NewDispatcher(new(recorder))
	d.Output("abcdefgh")

	w := &stingyWriter{accept: []int{100}}
	n, err := d.Flush(w, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 3, d.Pending())

	n, err = d.Flush(w, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abcdefgh", string(w.written))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 2, errors.New("broken pipe") }

func TestFlush_ErrorKeepsUnsentData(t *testing.T) {
	d := NewDispatcher(new(recorder))
	d.Output("abcdef")

	n, err := d.Flush(failingWriter{}, 0)
	assert.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, d.Pending())
}

func TestFlush_Empty(t *testing.T) {
	d := NewDispatcher(new(recorder))
	d.Output("")
	assert.False(t, d.Writable())

	n, err := d.Flush(failingWriter{}, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestConnectAndCloseAreForwarded(t *testing.T) {
	r := new(recorder)
	d := NewDispatcher(r)

	d.Connect()
	d.Close(nil)

	assert.Equal(t, 1, r.connects)
	assert.Equal(t, []error{nil}, r.closes)
}
