// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestWithSessionIDGenerator(t *testing.T) {
	c := NewAgent(newScriptedTransport(), WithSessionIDGenerator(func() string { return "fixed-id" }))
	if c.SessionID() != "fixed-id" {
		t.Fatalf("expected overridden session id, got %q", c.SessionID())
	}
}

func TestWithLoggerAcceptsNil(t *testing.T) {
	c := NewAgent(newScriptedTransport(), WithLogger(nil))
	if _, _, err := c.ReadMessage(); err != nil {
		t.Fatalf("unexpected error with nil logger: %v", err)
	}
}

func TestWithLoggerObservesStateTransitions(t *testing.T) {
	logger := zaptest.NewLogger(t)
	mt := newScriptedTransport()
	c := NewAgent(mt, WithLogger(logger))
	negotiateAgent(t, c, mt)
}

func TestWithBufferBeforeHandshakeOption(t *testing.T) {
	mt := newScriptedTransport()
	c := NewAgent(mt, WithBufferBeforeHandshake(true))
	if err := c.Send(Focus{Ty: FocusIn}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.eng.send.pending() == 0 {
		t.Fatalf("expected the pre-handshake send to be queued, not dropped")
	}
}
