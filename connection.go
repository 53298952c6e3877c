// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// defaultReconnectInterval bounds how often an agent's Reconnect call is
// actually allowed to take effect, absent WithReconnectLimiter.
const defaultReconnectInterval = 2 * time.Second

// ErrReconnectThrottled is returned by Reconnect when it is called more
// often than the configured reconnect rate limit allows.
var ErrReconnectThrottled = errors.New("guicore: reconnect throttled")

// ErrReconnectWrongRole is returned by Reconnect on a Connection built
// with NewDaemon: only the agent side re-establishes a dropped
// connection, since it is the side whose Transport is listened on.
var ErrReconnectWrongRole = errors.New("guicore: only an agent connection can reconnect")

// Connection is the public façade over the framing state machine and
// send buffer: one Transport, one Role, fixed for the Connection's
// lifetime (Reconnect replaces the Transport in place rather than
// constructing a new Connection).
type Connection struct {
	role      Role
	transport Transport
	eng       *engine
	opts      *options
	sessionID string
}

func newConnection(role Role, t Transport, xconf XConf, opts []Option) *Connection {
	o := defaultOptions()
	for _, apply := range opts {
		apply(o)
	}
	sessionID := o.sessionID()
	logger := o.logger
	if logger != nil {
		logger = logger.With(zap.String("session", sessionID))
	}
	return &Connection{
		role:      role,
		transport: t,
		eng:       newEngine(role, t, xconf, o.bufferBeforeHandshake, logger),
		opts:      o,
		sessionID: sessionID,
	}
}

// NewAgent builds a Connection that speaks the agent side of the
// handshake: once t reports StatusConnected, it sends its protocol
// version first and waits for the daemon's reply.
func NewAgent(t Transport, opts ...Option) *Connection {
	return newConnection(RoleAgent, t, XConf{}, opts)
}

// NewDaemon builds a Connection that speaks the daemon side of the
// handshake: it waits for the agent's version, then replies with the
// negotiated version and xconf describing the root window.
func NewDaemon(t Transport, xconf XConf, opts ...Option) *Connection {
	return newConnection(RoleDaemon, t, xconf, opts)
}

// Role reports whether this Connection is playing the agent or daemon
// side of the handshake.
func (c *Connection) Role() Role { return c.role }

// SessionID returns this Connection's session identifier, attached to
// every log line it emits and stable for the Connection's lifetime (it
// is not regenerated by Reconnect).
func (c *Connection) SessionID() string { return c.sessionID }

// Fd returns the underlying Transport's file descriptor, or -1 if it has
// none, for integration into an external readiness poller.
func (c *Connection) Fd() int { return c.transport.Fd() }

// Send encodes msg using its own Kind and enqueues it addressed to
// window. It never blocks. Sending a message whose Kind is not a known
// wire type, or whose Encode() output has a length that kind's wire rule
// forbids, is a programming error and panics rather than silently
// corrupting the stream.
func (c *Connection) Send(msg Message, window WindowID) error {
	return c.SendRaw(msg.Kind(), window, msg.Encode())
}

// SendRaw frames body as a message of the given kind addressed to window
// and enqueues it. Prefer Send where the payload type is known; SendRaw
// exists for callers holding only raw bytes and a kind tag. It still
// ensures correct framing — the kind and body length are validated
// against the wire rule.
func (c *Connection) SendRaw(kind Msg, window WindowID, body []byte) error {
	if c.eng.state == stError {
		return ErrAlreadyInErrorState
	}
	known, ok := validateLength(uint32(kind), uint32(len(body)))
	if !known || !ok {
		programmingError("sending message of kind %v with %d-byte body violates its wire length rule", kind, len(body))
	}
	hdr := UntrustedHeader{Type: uint32(kind), Window: window, UntrustedLen: uint32(len(body))}
	var hb [headerLen]byte
	hdr.encode(hb[:])
	if err := c.eng.send.enqueue(c.transport, c.eng.state, hb[:]); err != nil {
		c.eng.state = stError
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := c.eng.send.enqueue(c.transport, c.eng.state, body); err != nil {
		c.eng.state = stError
		return err
	}
	return nil
}

// SendRawBytes enqueues msg verbatim with no framing of its own. Using
// Send or SendRaw is preferred, since they guarantee a well-formed
// header/body pair; SendRawBytes is for a caller that has already built
// a complete wire-format message (e.g. a header followed separately by
// its body).
func (c *Connection) SendRawBytes(msg []byte) error {
	if c.eng.state == stError {
		return ErrAlreadyInErrorState
	}
	if err := c.eng.send.enqueue(c.transport, c.eng.state, msg); err != nil {
		c.eng.state = stError
		return err
	}
	return nil
}

// Wait blocks until the Transport is ready for I/O or ctx is done. Call
// it between ReadMessage calls that returned a nil Header, instead of
// busy-polling.
func (c *Connection) Wait(ctx context.Context) error {
	return c.transport.Wait(ctx)
}

// ReadMessage drives the framing state machine as far forward as
// possible without blocking. A non-nil Header means a complete message
// arrived; its body, if Header.Len() > 0, is returned alongside it and
// is valid only until the next Connection operation — copy it if it
// needs to outlive that. A nil Header with a nil error means no complete
// message is available yet; call Wait and retry. A non-nil error means
// the Connection has moved to its terminal error state.
func (c *Connection) ReadMessage() (*Header, []byte, error) {
	hdr, err := c.eng.poll()
	if err != nil {
		return nil, nil, err
	}
	if hdr == nil {
		return nil, nil, nil
	}
	if hdr.Len() == 0 {
		return hdr, nil, nil
	}
	return hdr, c.eng.buf, nil
}

// Reconnected reports, and clears, whether the most recent handshake
// completed since the last call to Reconnected. It is true exactly once
// after each successful (re)negotiation.
func (c *Connection) Reconnected() bool {
	v := c.eng.reconnected
	c.eng.reconnected = false
	return v
}

// NeedsReconnect reports whether the underlying Transport considers its
// peer gone.
func (c *Connection) NeedsReconnect() bool {
	return c.transport.Status() == StatusDisconnected
}

// XConf returns the negotiated version and root-window configuration.
// Before the first handshake completes, Version is PackedVersion and XConf
// is the locally supplied configuration (daemon) or the zero XConf
// (agent). Reconnect does not clear it: it keeps the previous value until
// the next handshake completes.
func (c *Connection) XConf() XConfVersion { return c.eng.xconf }

// Reconnect replaces the Transport backing an agent Connection and resets
// the framing state machine to Connecting, discarding any buffered writes
// and partially-read message body. It is rate-limited (see
// WithReconnectLimiter) to avoid hammering a peer that keeps refusing.
// Only valid on a Connection built with NewAgent; a daemon connection
// returns ErrReconnectWrongRole.
func (c *Connection) Reconnect(t Transport) error {
	if c.role != RoleAgent {
		return ErrReconnectWrongRole
	}
	if !c.opts.reconnectLimiter.Allow() {
		return ErrReconnectThrottled
	}
	c.eng.reset(t)
	c.transport = t
	return nil
}
