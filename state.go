// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import (
	"fmt"

	"go.uber.org/zap"
)

// Role fixes which side of the handshake a Connection plays, for its
// entire lifetime.
type Role int

const (
	// RoleAgent runs inside the VM whose graphical surface is exported.
	// It speaks first: once the Transport connects, it sends its packed
	// protocol version before anything else.
	RoleAgent Role = iota
	// RoleDaemon runs in the VM providing display services. It waits for
	// the agent's version, then replies with its negotiated version and
	// root-window configuration.
	RoleDaemon
)

func (r Role) String() string {
	if r == RoleAgent {
		return "agent"
	}
	return "daemon"
}

// readState is the framing state machine's current state. Go has no
// native sum type, so states that carry data (ReadingBody, Discard) keep
// their payload in dedicated engine fields instead of inside the
// discriminator itself.
type readState uint8

const (
	stConnecting readState = iota
	stNegotiating
	stReadingHeader
	stReadingBody
	stDiscard
	stError
)

func (s readState) String() string {
	switch s {
	case stConnecting:
		return "connecting"
	case stNegotiating:
		return "negotiating"
	case stReadingHeader:
		return "reading-header"
	case stReadingBody:
		return "reading-body"
	case stDiscard:
		return "discard"
	case stError:
		return "error"
	default:
		return "invalid"
	}
}

// engine is the framing state machine (component B) plus its coupled send
// buffer (component C): every read operation flushes pending writes
// first, mirroring the reference implementation's single combined
// read/write stream type.
type engine struct {
	role      Role
	transport Transport
	send      *sendBuffer
	logger    *zap.Logger

	state            readState
	pendingHeader    Header
	discardRemaining int
	buf              []byte

	reconnected bool
	xconf       XConfVersion
}

func newEngine(role Role, t Transport, xconf XConf, bufferBeforeHandshake bool, logger *zap.Logger) *engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &engine{
		role:      role,
		transport: t,
		send:      newSendBuffer(bufferBeforeHandshake),
		logger:    logger,
		state:     stConnecting,
	}
	e.xconf = XConfVersion{Version: PackedVersion, XConf: xconf}
	return e
}

// reset re-arms the engine around a freshly (re)dialed Transport, as used
// by Connection.Reconnect. Buffered writes and any partially-read body
// are discarded, since they belong to the dead connection.
func (e *engine) reset(t Transport) {
	e.transport = t
	e.state = stConnecting
	e.pendingHeader = Header{}
	e.discardRemaining = 0
	e.buf = e.buf[:0]
	e.reconnected = false
	e.send.queue = e.send.queue[:0]
	e.send.front = 0
}

// poll drives the state machine as far forward as it can go without
// blocking. It returns a non-nil Header exactly when a complete message
// (including zero-length messages) has become available; the message
// body, if any, is in e.buf, valid until the next engine/Connection
// operation. It returns (nil, nil) when no further progress is possible
// without more data, and a non-nil error — after moving the engine to
// stError — on any protocol or transport failure.
func (e *engine) poll() (*Header, error) {
	if e.state == stError {
		return nil, ErrAlreadyInErrorState
	}
	if e.state != stConnecting && e.state != stNegotiating {
		if err := e.send.flush(e.transport); err != nil {
			e.state = stError
			return nil, err
		}
	}
	hdr, err := e.pollLocked()
	if err != nil {
		e.state = stError
		e.logger.Warn("guicore: connection entering error state", zap.Error(err), zap.Stringer("role", e.role))
	}
	return hdr, err
}

func (e *engine) pollLocked() (*Header, error) {
	for {
		ready := e.transport.DataReady()
		switch e.state {
		case stConnecting:
			switch e.transport.Status() {
			case StatusWaiting:
				return nil, nil
			case StatusDisconnected:
				return nil, ErrTransportRefused
			case StatusConnected:
				if e.role == RoleAgent {
					var vb [4]byte
					putU32(vb[:], 0, PackedVersion)
					if _, err := e.transport.Send(vb[:]); err != nil {
						return nil, err
					}
				}
				e.state = stNegotiating
			}

		case stNegotiating:
			switch e.role {
			case RoleAgent:
				if ready < sizeXConfVersion {
					return nil, nil
				}
				var b [sizeXConfVersion]byte
				ok, err := e.transport.RecvStruct(b[:])
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, nil
				}
				peer := decodeXConfVersion(b[:])
				peerMajor, peerMinor := unpackVersion(peer.Version)
				if peerMajor != ProtocolVersionMajor || peerMinor > ProtocolVersionMinor || peerMinor < 4 {
					return nil, &VersionMismatchError{
						Role: "agent", PeerMajor: peerMajor, PeerMinor: peerMinor,
						OwnMajor: ProtocolVersionMajor, OwnMinor: ProtocolVersionMinor,
					}
				}
				e.xconf = peer
				e.reconnected = true
				e.state = stReadingHeader
				e.logger.Debug("guicore: handshake complete", zap.Stringer("role", e.role), zap.Uint32("version", peer.Version))

			case RoleDaemon:
				if ready < 4 {
					return nil, nil
				}
				var b [4]byte
				ok, err := e.transport.RecvStruct(b[:])
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, nil
				}
				peerVersion := getU32(b[:], 0)
				peerMajor, peerMinor := unpackVersion(peerVersion)
				if peerMajor != ProtocolVersionMajor {
					return nil, &VersionMismatchError{
						Role: "daemon", PeerMajor: peerMajor, PeerMinor: peerMinor,
						OwnMajor: ProtocolVersionMajor, OwnMinor: ProtocolVersionMinor,
					}
				}
				negotiatedMinor := peerMinor
				if negotiatedMinor > ProtocolVersionMinor {
					negotiatedMinor = ProtocolVersionMinor
				}
				e.xconf.Version = packVersion(ProtocolVersionMajor, negotiatedMinor)
				var reply []byte
				if negotiatedMinor >= 4 {
					reply = e.xconf.Encode()
				} else {
					reply = e.xconf.XConf.Encode()
				}
				if _, err := e.transport.Send(reply); err != nil {
					return nil, err
				}
				e.state = stReadingHeader
				e.logger.Debug("guicore: handshake complete", zap.Stringer("role", e.role), zap.Uint32("version", e.xconf.Version))
			}

		case stReadingHeader:
			if ready < headerLen {
				return nil, nil
			}
			var b [headerLen]byte
			ok, err := e.transport.RecvStruct(b[:])
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			e.buf = e.buf[:0]
			untrusted := decodeUntrustedHeader(b[:])
			hdr, unknown, verr := untrusted.Validate()
			switch {
			case verr != nil:
				return nil, verr
			case unknown:
				if e.role == RoleDaemon {
					return nil, &BadLengthError{Type: untrusted.Type, UntrustedLen: untrusted.UntrustedLen}
				}
				if untrusted.UntrustedLen == 0 {
					e.state = stReadingHeader
					continue
				}
				e.logger.Debug("guicore: discarding unknown message",
					zap.Uint32("type", untrusted.Type), zap.Uint32("window", uint32(untrusted.Window)),
					zap.Uint32("len", untrusted.UntrustedLen))
				e.discardRemaining = int(untrusted.UntrustedLen)
				e.state = stDiscard
			case hdr.Len() == 0:
				e.state = stReadingHeader
				return &hdr, nil
			default:
				e.pendingHeader = hdr
				e.state = stReadingBody
			}

		case stDiscard:
			n, err := e.transport.Discard(min(ready, e.discardRemaining))
			if err != nil {
				return nil, err
			}
			e.discardRemaining -= n
			if e.discardRemaining <= 0 {
				e.state = stReadingHeader
			} else if n == 0 {
				return nil, nil
			}

		case stReadingBody:
			want := e.pendingHeader.Len() - len(e.buf)
			if want > 0 {
				n := want
				if ready < n {
					n = ready
				}
				if n > 0 {
					off := len(e.buf)
					e.buf = append(e.buf, make([]byte, n)...)
					got, err := e.transport.RecvInto(e.buf[off : off+n])
					if err != nil {
						return nil, err
					}
					e.buf = e.buf[:off+got]
				}
			}
			if len(e.buf) >= e.pendingHeader.Len() {
				hdr := e.pendingHeader
				e.state = stReadingHeader
				return &hdr, nil
			}
			return nil, nil

		default:
			return nil, fmt.Errorf("guicore: impossible state %v", e.state)
		}
	}
}
