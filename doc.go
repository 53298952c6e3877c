// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package guicore implements the core of a low-level client for a GUI
// protocol spoken between two virtual machines over a bidirectional,
// in-memory byte-oriented channel (the transport).
//
// Roles:
//   - Agent: runs inside the VM whose graphical surface is being exported.
//     Initiates the handshake by sending its protocol version first.
//   - Daemon: runs in the VM providing display services. Replies to the
//     handshake with its negotiated version and root-window configuration.
//
// Design:
//   - Non-blocking first: every Connection operation except Wait returns
//     immediately with a ready/pending/error result. The caller integrates
//     the Transport's file descriptor into its own readiness poller and
//     drives Connection.ReadMessage/Wait in response to readiness.
//   - Single-threaded, cooperative: a Connection is owned by exactly one
//     caller at a time. No internal locks or goroutines run on its behalf
//     (the nettransport subpackage does run goroutines, but only to bridge
//     a blocking net.Conn to this package's poll-based Transport interface).
//   - Zero-copy body delivery: the body returned by ReadMessage borrows the
//     Connection's internal read buffer and is valid only until the next
//     Connection operation.
//
// The transport itself, rendering, window-management policy, clipboard
// policy, keymap interpretation, and shared-memory page handling are all
// out of scope; this package only understands framing, length validation,
// and version negotiation.
package guicore
