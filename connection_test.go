// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func negotiateAgent(t *testing.T, c *Connection, mt *scriptedTransport) {
	t.Helper()
	if _, _, err := c.ReadMessage(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	peer := XConfVersion{Version: packVersion(1, 7), XConf: XConf{Size: WindowSize{Width: 640, Height: 480}, Depth: 24, Mem: 640 * 480 * 4}}
	mt.feed(peer.Encode())
	if _, _, err := c.ReadMessage(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConnectionSendAndReadMessage(t *testing.T) {
	mt := newScriptedTransport()
	c := NewAgent(mt)
	negotiateAgent(t, c, mt)

	if err := c.Send(Focus{Ty: FocusIn}, WindowID(3)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(mt.sent()) != 4+headerLen+sizeFocus {
		t.Fatalf("expected version+header+body on the wire, got %d bytes", len(mt.sent()))
	}

	btn := Button{Ty: ButtonPress, Coordinates: Coordinates{X: 1, Y: 2}, State: 0, Button: 1}
	var hb [headerLen]byte
	UntrustedHeader{Type: uint32(MsgButton), Window: 9, UntrustedLen: sizeButton}.encode(hb[:])
	mt.feed(hb[:])
	mt.feed(btn.Encode())

	hdr, body, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hdr == nil || hdr.Type() != MsgButton || hdr.Window() != 9 {
		t.Fatalf("unexpected header: %v", hdr)
	}
	if got := DecodeButton(body); got != btn {
		t.Fatalf("body mismatch: got %+v want %+v", got, btn)
	}
}

func TestConnectionSendRawBadLengthPanics(t *testing.T) {
	mt := newScriptedTransport()
	c := NewAgent(mt)
	negotiateAgent(t, c, mt)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a malformed SendRaw call")
		}
	}()
	_ = c.SendRaw(MsgFocus, 0, []byte{1, 2, 3})
}

func TestConnectionDaemonReconnectWrongRole(t *testing.T) {
	mt := newScriptedTransport()
	c := NewDaemon(mt, XConf{})
	if err := c.Reconnect(mt); err != ErrReconnectWrongRole {
		t.Fatalf("expected ErrReconnectWrongRole, got %v", err)
	}
}

func TestConnectionReconnectThrottled(t *testing.T) {
	mt := newScriptedTransport()
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	c := NewAgent(mt, WithReconnectLimiter(limiter))

	if err := c.Reconnect(newScriptedTransport()); err != nil {
		t.Fatalf("first reconnect should succeed: %v", err)
	}
	if err := c.Reconnect(newScriptedTransport()); err != ErrReconnectThrottled {
		t.Fatalf("expected ErrReconnectThrottled, got %v", err)
	}
}

func TestConnectionNeedsReconnect(t *testing.T) {
	mt := newScriptedTransport()
	c := NewAgent(mt)
	if c.NeedsReconnect() {
		t.Fatalf("fresh connected transport should not need reconnect")
	}
	mt.status = StatusDisconnected
	if !c.NeedsReconnect() {
		t.Fatalf("expected NeedsReconnect true once transport disconnects")
	}
}

func TestConnectionSessionIDsAreUnique(t *testing.T) {
	c1 := NewAgent(newScriptedTransport())
	c2 := NewAgent(newScriptedTransport())
	if c1.SessionID() == "" || c1.SessionID() == c2.SessionID() {
		t.Fatalf("expected distinct non-empty session ids, got %q and %q", c1.SessionID(), c2.SessionID())
	}
}

func TestConnectionXConfReflectsNegotiation(t *testing.T) {
	mt := newScriptedTransport()
	c := NewAgent(mt)
	negotiateAgent(t, c, mt)
	if c.XConf().XConf.Size.Width != 640 {
		t.Fatalf("expected negotiated xconf, got %+v", c.XConf())
	}
	if !c.Reconnected() {
		t.Fatalf("expected Reconnected true once")
	}
	if c.Reconnected() {
		t.Fatalf("expected Reconnected to clear after being read")
	}
}

func TestConnectionWaitDelegatesToTransport(t *testing.T) {
	mt := newScriptedTransport()
	c := NewAgent(mt)
	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mt.waitCalls != 1 {
		t.Fatalf("expected Wait to delegate to transport, got %d calls", mt.waitCalls)
	}
}
