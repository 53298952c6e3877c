// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

// compactThreshold bounds how much dead space at the front of the send
// queue we tolerate before paying to slide the live bytes down.
const compactThreshold = 4096

// sendBuffer is the FIFO byte queue backing Connection.Send/SendRaw. It
// never blocks: Enqueue always returns immediately, draining as much as
// the Transport will currently accept and queuing the rest.
type sendBuffer struct {
	queue []byte
	front int

	// bufferBeforeHandshake controls what happens to Enqueue calls made
	// while the framing state machine is in Connecting or Negotiating:
	// the reference behaviour (false) silently drops them, since a
	// peer that hasn't negotiated a version yet cannot interpret
	// arbitrary application messages. Setting this true queues them
	// instead, to be flushed once negotiation completes. Enqueue calls
	// made in Error are dropped whatever this is set to.
	bufferBeforeHandshake bool
}

func newSendBuffer(bufferBeforeHandshake bool) *sendBuffer {
	return &sendBuffer{bufferBeforeHandshake: bufferBeforeHandshake}
}

// pending reports how many queued bytes have not yet reached the Transport.
func (s *sendBuffer) pending() int { return len(s.queue) - s.front }

// flush writes as much of the queue as the Transport will currently
// accept without blocking.
func (s *sendBuffer) flush(t Transport) error {
	for s.pending() > 0 {
		n, err := t.Send(s.queue[s.front:])
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		s.front += n
	}
	switch {
	case s.front == len(s.queue):
		s.queue = s.queue[:0]
		s.front = 0
	case s.front > compactThreshold:
		s.queue = append(s.queue[:0], s.queue[s.front:]...)
		s.front = 0
	}
	return nil
}

// enqueue drains any already-queued bytes, then attempts to write p
// directly; whatever doesn't fit is appended to the queue. It never
// splits p across a partial-queue/partial-direct write in a way that
// would reorder bytes, and never interleaves two calls' bytes out of
// order, since queued bytes always drain before a new direct write is
// attempted.
func (s *sendBuffer) enqueue(t Transport, state readState, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if state == stError {
		return nil
	}
	switch state {
	case stConnecting, stNegotiating:
		if !s.bufferBeforeHandshake {
			return nil
		}
		// Queue only: bytes must not reach the Transport before
		// negotiation succeeds, however long that takes.
		s.queue = append(s.queue, p...)
		return nil
	}
	if err := s.flush(t); err != nil {
		return err
	}
	if s.pending() == 0 {
		n, err := t.Send(p)
		if err != nil {
			return err
		}
		if n == len(p) {
			return nil
		}
		p = p[n:]
	}
	s.queue = append(s.queue, p...)
	return nil
}
