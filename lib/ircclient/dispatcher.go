// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package ircclient

import (
	"io"
	"strings"

	"github.com/Screwperman/pyirc/lib/wireproto"
)

// Handler receives the events of one connection, in order.
type Handler interface {
	HandleConnect()
	HandleLine(msg wireproto.Message)
	HandleClose(err error)
}

// Dispatcher turns the byte chunks read from a connection into complete
// lines and queues the data waiting to be written out.
//
// A Dispatcher belongs to a single goroutine and is not safe for concurrent
// use.
type Dispatcher struct {
	handler    Handler
	recvBuffer []string
	sendBuffer []string
}

// NewDispatcher returns a Dispatcher handing its lines to handler.
func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler: handler,
	}
}

// Connect tells the handler the connection is up.
func (d *Dispatcher) Connect() {
	d.handler.HandleConnect()
}

// Close tells the handler the connection went away.
func (d *Dispatcher) Close(err error) {
	d.handler.HandleClose(err)
}

// Feed takes a chunk of data read from the connection and hands every line
// it completes to the handler.
func (d *Dispatcher) Feed(chunk []byte) {
	data := string(chunk)

	// a \r\n split between two reads leaves a lone \n at the start of this
	// chunk, glue everything back together before splitting
	if strings.HasPrefix(data, "\n") && d.splitDelimiter() {
		data = strings.Join(d.recvBuffer, "") + data
		d.recvBuffer = nil
	}

	pieces := strings.Split(data, "\r\n")
	if len(pieces) == 1 {
		d.recvBuffer = append(d.recvBuffer, data)
		return
	}

	first := strings.Join(d.recvBuffer, "") + pieces[0]
	d.recvBuffer = []string{pieces[len(pieces)-1]}

	d.handler.HandleLine(wireproto.Decode(first))
	for _, line := range pieces[1 : len(pieces)-1] {
		d.handler.HandleLine(wireproto.Decode(line))
	}
}

// splitDelimiter returns true if the buffered chunks may end with the first
// half of a \r\n. Two or more chunks mean an earlier split attempt already
// failed, a single chunk only counts when it ends with \r.
func (d *Dispatcher) splitDelimiter() bool {
	switch len(d.recvBuffer) {
	case 0:
		return false
	case 1:
		return strings.HasSuffix(d.recvBuffer[0], "\r")
	default:
		return true
	}
}

// Output queues data to be written to the connection.
func (d *Dispatcher) Output(data string) {
	if data == "" {
		return
	}
	d.sendBuffer = append(d.sendBuffer, data)
}

// Writable returns true if there is queued data to write.
func (d *Dispatcher) Writable() bool {
	return len(d.sendBuffer) > 0
}

// Pending returns the number of queued bytes.
func (d *Dispatcher) Pending() int {
	var n int
	for _, chunk := range d.sendBuffer {
		n += len(chunk)
	}
	return n
}

// Flush writes at most maxBytes of queued data to w, zero or less meaning
// no limit. Whatever w did not accept stays queued.
func (d *Dispatcher) Flush(w io.Writer, maxBytes int) (int, error) {
	if !d.Writable() {
		return 0, nil
	}

	data := strings.Join(d.sendBuffer, "")
	end := len(data)
	if 0 < maxBytes && maxBytes < end {
		end = maxBytes
	}

	n, err := w.Write([]byte(data[:end]))
	if n < 0 {
		n = 0
	}
	if rest := data[n:]; rest != "" {
		d.sendBuffer = []string{rest}
	} else {
		d.sendBuffer = nil
	}
	return n, err
}
