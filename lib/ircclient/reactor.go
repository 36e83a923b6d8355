// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package ircclient

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog/log"
)

const (
	readSize = 4096
	// writeSize is the most a single Flush sends.
	writeSize = 4096
)

// Reactor drives one connection. All of the Dispatcher's events, and so
// everything its Handler does, happen on the goroutine running Run.
type Reactor struct {
	transport  Transport
	dispatcher *Dispatcher
	calls      chan func()
	stopped    chan struct{}
	name       string
}

type readResult struct {
	data []byte
	err  error
}

// NewReactor returns a Reactor moving data between transport and dispatcher.
func NewReactor(name string, transport Transport, dispatcher *Dispatcher) *Reactor {
	return &Reactor{
		transport:  transport,
		dispatcher: dispatcher,
		calls:      make(chan func()),
		stopped:    make(chan struct{}),
		name:       name,
	}
}

// Call runs fn on the Run goroutine, returning false if the reactor is not
// running anymore.
func (reactor *Reactor) Call(ctx context.Context, fn func()) bool {
	select {
	case reactor.calls <- fn:
		return true
	case <-reactor.stopped:
		return false
	case <-ctx.Done():
		return false
	}
}

// Run handles the connection until it closes or ctx is cancelled. The
// reason is given to the handler once, a clean EOF is reported as nil.
// A Reactor runs only once.
func (reactor *Reactor) Run(ctx context.Context) error {
	chunks := make(chan readResult)
	go reactor.runSocketReader(chunks, reactor.stopped)

	reactor.dispatcher.Connect()
	err := reactor.flush()

	for err == nil {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case fn := <-reactor.calls:
			fn()
			err = reactor.flush()
		case chunk := <-chunks:
			if len(chunk.data) > 0 {
				reactor.dispatcher.Feed(chunk.data)
			}
			if chunk.err != nil {
				err = chunk.err
			} else {
				err = reactor.flush()
			}
		}
	}

	close(reactor.stopped)
	reactor.transport.Close()

	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		err = nil
	}
	log.Debug().Str("network", reactor.name).AnErr("reason", err).Msg("connection closed")
	reactor.dispatcher.Close(err)
	return err
}

// flush writes out everything queued on the dispatcher.
func (reactor *Reactor) flush() error {
	for reactor.dispatcher.Writable() {
		n, err := reactor.dispatcher.Flush(reactor.transport, writeSize)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		log.Trace().Str("network", reactor.name).Int("bytes", n).Msg("->")
	}
	return nil
}

// runSocketReader reads from the transport until it fails. It never
// touches the dispatcher.
func (reactor *Reactor) runSocketReader(chunks chan<- readResult, done <-chan struct{}) {
	for {
		buf := make([]byte, readSize)
		n, err := reactor.transport.Read(buf)

		select {
		case chunks <- readResult{data: buf[:n], err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}
