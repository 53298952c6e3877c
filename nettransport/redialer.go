// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nettransport

import (
	"context"
	"errors"
	"net"

	"golang.org/x/time/rate"
)

// ErrRedialThrottled is returned by Redialer.Redial when called more
// often than its rate limit allows.
var ErrRedialThrottled = errors.New("nettransport: redial throttled")

// Redialer wraps a dial function with rate limiting, so a caller driving
// guicore.Connection.Reconnect in a loop cannot hammer a peer that keeps
// refusing the connection.
type Redialer struct {
	dial    func(ctx context.Context) (net.Conn, error)
	limiter *rate.Limiter
	opts    []Option
}

// NewRedialer builds a Redialer around dial, gating each dial attempt on
// limiter; a nil limiter allows every attempt. opts are passed through to
// every Conn that Redial builds (for example WithCapacity).
func NewRedialer(dial func(ctx context.Context) (net.Conn, error), limiter *rate.Limiter, opts ...Option) *Redialer {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Redialer{dial: dial, limiter: limiter, opts: opts}
}

// Redial attempts to dial a fresh connection, subject to the Redialer's
// rate limit, and wraps it in a new Conn on success.
func (r *Redialer) Redial(ctx context.Context) (*Conn, error) {
	if !r.limiter.Allow() {
		return nil, ErrRedialThrottled
	}
	conn, err := r.dial(ctx)
	if err != nil {
		return nil, err
	}
	return New(conn, r.opts...), nil
}
