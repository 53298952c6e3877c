// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nettransport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vmconsole/guicore"
)

// defaultCapacity bounds each of Conn's read and write queues. It plays
// the role a vchan's fixed shared-memory ring buffer plays in the
// reference transport: a genuine, finite amount of backpressure.
const defaultCapacity = 64 * 1024

// Conn adapts a net.Conn to guicore.Transport. Build one per accepted or
// dialed connection with New; it satisfies guicore.Transport directly.
type Conn struct {
	conn net.Conn
	id   string
	fd   int

	group  *errgroup.Group
	cancel context.CancelFunc

	mu       sync.Mutex
	readBuf  []byte
	writeBuf []byte
	capacity int
	status   guicore.Status
	err      error
	sig      chan struct{}
}

// Option configures a Conn at construction time.
type Option func(*Conn)

// WithCapacity overrides the default 64KiB bound on each of the read and
// write queues.
func WithCapacity(n int) Option {
	return func(c *Conn) { c.capacity = n }
}

// New wraps conn, starting its reader and writer pump goroutines. conn is
// assumed already connected — dialing or accepting happens before New is
// called — so the returned Conn starts in guicore.StatusConnected.
func New(conn net.Conn, opts ...Option) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	c := &Conn{
		conn:     conn,
		id:       uuid.New().String(),
		fd:       fdOf(conn),
		group:    g,
		cancel:   cancel,
		capacity: defaultCapacity,
		status:   guicore.StatusConnected,
		sig:      make(chan struct{}),
	}
	for _, apply := range opts {
		apply(c)
	}
	g.Go(func() error { return c.readPump(ctx) })
	g.Go(func() error { return c.writePump(ctx) })
	return c
}

func fdOf(conn net.Conn) int {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return -1
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1
	}
	fd := -1
	_ = raw.Control(func(rawfd uintptr) { fd = int(rawfd) })
	return fd
}

// broadcast wakes every Wait call blocked on c.sig. Must be called with
// c.mu held.
func (c *Conn) broadcast() {
	close(c.sig)
	c.sig = make(chan struct{})
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	if c.status != guicore.StatusDisconnected {
		c.status = guicore.StatusDisconnected
		c.err = fmt.Errorf("nettransport[%s]: %w", c.id, err)
		c.broadcast()
	}
	c.mu.Unlock()
}

func (c *Conn) readPump(ctx context.Context) error {
	tmp := make([]byte, 4096)
	for {
		n, err := c.conn.Read(tmp)
		if n > 0 {
			chunk := tmp[:n]
			c.mu.Lock()
			for len(chunk) > 0 {
				for len(c.readBuf) >= c.capacity {
					c.mu.Unlock()
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-c.sig:
					}
					c.mu.Lock()
				}
				room := c.capacity - len(c.readBuf)
				part := chunk
				if len(part) > room {
					part = part[:room]
				}
				c.readBuf = append(c.readBuf, part...)
				chunk = chunk[len(part):]
				c.broadcast()
			}
			c.mu.Unlock()
		}
		if err != nil {
			c.fail(err)
			return err
		}
	}
}

func (c *Conn) writePump(ctx context.Context) error {
	for {
		c.mu.Lock()
		for len(c.writeBuf) == 0 {
			c.mu.Unlock()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.sig:
			}
			c.mu.Lock()
		}
		chunk := append([]byte(nil), c.writeBuf...)
		c.mu.Unlock()

		n, err := c.conn.Write(chunk)
		c.mu.Lock()
		if n > 0 {
			c.writeBuf = c.writeBuf[n:]
			c.broadcast()
		}
		c.mu.Unlock()
		if err != nil {
			c.fail(err)
			return err
		}
	}
}

// Status implements guicore.Transport.
func (c *Conn) Status() guicore.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// DataReady implements guicore.Transport.
func (c *Conn) DataReady() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.readBuf)
}

// BufferSpace implements guicore.Transport.
func (c *Conn) BufferSpace() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity - len(c.writeBuf)
}

// Send implements guicore.Transport.
func (c *Conn) Send(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == guicore.StatusDisconnected {
		return 0, c.err
	}
	space := c.capacity - len(c.writeBuf)
	if space <= 0 {
		return 0, nil
	}
	n := len(p)
	if n > space {
		n = space
	}
	c.writeBuf = append(c.writeBuf, p[:n]...)
	c.broadcast()
	return n, nil
}

// RecvInto implements guicore.Transport.
func (c *Conn) RecvInto(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := copy(p, c.readBuf)
	c.readBuf = c.readBuf[n:]
	if n > 0 {
		c.broadcast()
	}
	if n == 0 && c.status == guicore.StatusDisconnected {
		return 0, c.err
	}
	return n, nil
}

// RecvStruct implements guicore.Transport.
func (c *Conn) RecvStruct(p []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.readBuf) < len(p) {
		if c.status == guicore.StatusDisconnected {
			return false, c.err
		}
		return false, nil
	}
	copy(p, c.readBuf[:len(p)])
	c.readBuf = c.readBuf[len(p):]
	c.broadcast()
	return true, nil
}

// Discard implements guicore.Transport.
func (c *Conn) Discard(n int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > len(c.readBuf) {
		n = len(c.readBuf)
	}
	c.readBuf = c.readBuf[n:]
	if n > 0 {
		c.broadcast()
	}
	return n, nil
}

// Wait implements guicore.Transport.
func (c *Conn) Wait(ctx context.Context) error {
	c.mu.Lock()
	if len(c.readBuf) > 0 || c.capacity-len(c.writeBuf) > 0 || c.status == guicore.StatusDisconnected {
		c.mu.Unlock()
		return nil
	}
	sig := c.sig
	c.mu.Unlock()
	select {
	case <-sig:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fd implements guicore.Transport. It returns -1 for connections with no
// underlying file descriptor, such as net.Pipe.
func (c *Conn) Fd() int { return c.fd }

// Close stops the pump goroutines and closes the underlying net.Conn,
// waiting for both pumps to exit.
func (c *Conn) Close() error {
	c.cancel()
	closeErr := c.conn.Close()
	_ = c.group.Wait()
	return closeErr
}
