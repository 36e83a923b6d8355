// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package ircclient

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"time"
)

// Transport is the byte stream a Reactor drives. Reads and writes may be
// partial.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Socket is a Transport over a network connection.
type Socket struct {
	Host string
	Port int
	// DialTimeout is how long Connect waits, zero for no timeout.
	DialTimeout time.Duration

	conn      net.Conn
	closeOnce sync.Once
	closeErr  error
}

// NewSocket returns a Socket that will connect to host:port.
func NewSocket(host string, port int) *Socket {
	return &Socket{
		Host:        host,
		Port:        port,
		DialTimeout: 30 * time.Second,
	}
}

// WrapConn returns a Socket over an existing connection.
func WrapConn(conn net.Conn) *Socket {
	return &Socket{conn: conn}
}

// Address returns host:port.
func (socket *Socket) Address() string {
	return net.JoinHostPort(socket.Host, strconv.Itoa(socket.Port))
}

// Connect dials the server.
func (socket *Socket) Connect(ctx context.Context) error {
	dialer := net.Dialer{Timeout: socket.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", socket.Address())
	if err != nil {
		return err
	}
	socket.conn = conn
	return nil
}

func (socket *Socket) Read(p []byte) (int, error) {
	if socket.conn == nil {
		return 0, io.ErrClosedPipe
	}
	return socket.conn.Read(p)
}

func (socket *Socket) Write(p []byte) (int, error) {
	if socket.conn == nil {
		return 0, io.ErrClosedPipe
	}
	return socket.conn.Write(p)
}

// Close closes the connection. Closing more than once is fine.
func (socket *Socket) Close() error {
	if socket.conn == nil {
		return nil
	}
	socket.closeOnce.Do(func() {
		socket.closeErr = socket.conn.Close()
	})
	return socket.closeErr
}
