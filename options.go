// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// options collects every Connection construction-time setting. It is
// unexported; callers only ever see the functional Option constructors
// below, the same pattern the teacher uses for its own transport presets.
type options struct {
	logger                *zap.Logger
	bufferBeforeHandshake bool
	sessionID             func() string
	reconnectLimiter      *rate.Limiter
}

func defaultOptions() *options {
	return &options{
		logger:                nil,
		bufferBeforeHandshake: false,
		sessionID:             func() string { return uuid.New().String() },
		reconnectLimiter:      rate.NewLimiter(rate.Every(defaultReconnectInterval), 1),
	}
}

// Option configures a Connection at construction time.
type Option func(*options)

// WithLogger attaches a structured logger. Connection logs a completed
// handshake and the headers of discarded messages (type/window/length
// only — body bytes of unrecognized messages are never logged) at Debug,
// and the move into the terminal error state, with its cause, at Warn.
// Other state transitions are not logged. Every line carries the
// Connection's session ID. A nil logger (the default) disables logging
// entirely.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBufferBeforeHandshake controls what happens to Send/SendRaw calls
// made before the handshake completes. The default, false, silently drops
// them — a peer that hasn't negotiated a version yet has no way to
// interpret application messages. Passing true queues them instead, to
// be flushed once negotiation completes. Once the connection has entered
// its terminal error state, sends return ErrAlreadyInErrorState and
// nothing is queued, regardless of this setting.
func WithBufferBeforeHandshake(buffer bool) Option {
	return func(o *options) { o.bufferBeforeHandshake = buffer }
}

// WithSessionIDGenerator overrides how Connection.SessionID values are
// produced. The default generates a random UUID per Connection.
func WithSessionIDGenerator(gen func() string) Option {
	return func(o *options) { o.sessionID = gen }
}

// WithReconnectLimiter overrides the rate limiter gating Reconnect calls,
// preventing a tight reconnect loop against a peer that keeps refusing.
// The default allows one attempt per defaultReconnectInterval.
func WithReconnectLimiter(l *rate.Limiter) Option {
	return func(o *options) { o.reconnectLimiter = l }
}
