// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import (
	"errors"
	"fmt"
)

// ErrAlreadyInErrorState is returned by ReadMessage, Send, SendRaw and
// SendRawBytes once the framing state machine has entered its terminal
// Error state. The
// Connection is no longer usable; the caller must discard it (an agent may
// instead call Reconnect, which replaces the Transport and resets state).
var ErrAlreadyInErrorState = errors.New("guicore: connection already in error state")

// ErrTransportRefused is returned when a Transport reports StatusDisconnected
// while still Connecting, i.e. the peer never showed up.
var ErrTransportRefused = errors.New("guicore: transport connection refused")

// VersionMismatchError reports a failed handshake: the peer's protocol
// version is incompatible with this package's.
type VersionMismatchError struct {
	// Role is "agent" or "daemon", identifying which side rejected the
	// handshake.
	Role          string
	PeerMajor     uint32
	PeerMinor     uint32
	OwnMajor      uint32
	OwnMinor      uint32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("guicore: %s rejected handshake: peer version %d.%d is incompatible with %d.%d",
		e.Role, e.PeerMajor, e.PeerMinor, e.OwnMajor, e.OwnMinor)
}

// programmingError panics with a message identifying a contract violation
// by the caller rather than a runtime/protocol failure — e.g. sending a
// message whose Kind() is not a recognized wire type. Unlike the error
// values above, these are never meant to be handled; they indicate a bug.
func programmingError(format string, args ...any) {
	panic(fmt.Sprintf("guicore: programming error: "+format, args...))
}
