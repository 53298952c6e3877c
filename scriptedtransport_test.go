// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import "context"

// scriptedTransport is a fully synchronous, single-threaded Transport used
// across the test files in this package, in the spirit of the teacher's
// own scripted mock I/O types: a test arranges exactly what bytes are
// "on the wire" and then drives Connection/engine calls, asserting on the
// resulting state rather than on timing.
type scriptedTransport struct {
	status Status

	readBuf []byte
	writeBuf []byte

	// writeLimit caps how many bytes Send accepts per call; 0 means
	// unlimited. Used to exercise partial-write/backpressure paths.
	writeLimit int

	sendErr, recvErr error
	fd               int
	waitCalls        int
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{status: StatusConnected, fd: -1}
}

func (m *scriptedTransport) feed(b []byte) { m.readBuf = append(m.readBuf, b...) }

func (m *scriptedTransport) sent() []byte { return m.writeBuf }

func (m *scriptedTransport) Status() Status { return m.status }

func (m *scriptedTransport) DataReady() int { return len(m.readBuf) }

func (m *scriptedTransport) BufferSpace() int {
	if m.writeLimit == 0 {
		return 1 << 30
	}
	space := m.writeLimit - len(m.writeBuf)
	if space < 0 {
		return 0
	}
	return space
}

func (m *scriptedTransport) Send(p []byte) (int, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	n := len(p)
	if m.writeLimit > 0 {
		space := m.writeLimit - len(m.writeBuf)
		if space < 0 {
			space = 0
		}
		if n > space {
			n = space
		}
	}
	m.writeBuf = append(m.writeBuf, p[:n]...)
	return n, nil
}

func (m *scriptedTransport) RecvInto(p []byte) (int, error) {
	if m.recvErr != nil {
		return 0, m.recvErr
	}
	n := copy(p, m.readBuf)
	m.readBuf = m.readBuf[n:]
	return n, nil
}

func (m *scriptedTransport) RecvStruct(p []byte) (bool, error) {
	if m.recvErr != nil {
		return false, m.recvErr
	}
	if len(m.readBuf) < len(p) {
		return false, nil
	}
	copy(p, m.readBuf[:len(p)])
	m.readBuf = m.readBuf[len(p):]
	return true, nil
}

func (m *scriptedTransport) Discard(n int) (int, error) {
	if n > len(m.readBuf) {
		n = len(m.readBuf)
	}
	m.readBuf = m.readBuf[n:]
	return n, nil
}

func (m *scriptedTransport) Wait(ctx context.Context) error {
	m.waitCalls++
	return nil
}

func (m *scriptedTransport) Fd() int { return m.fd }
