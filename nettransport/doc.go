// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package nettransport adapts a blocking net.Conn (TCP, Unix domain
// socket, or net.Pipe for tests) to guicore.Transport's non-blocking,
// poll-based contract.
//
// A net.Conn's Read and Write both block, so Conn runs two background
// goroutines — a reader pump and a writer pump — supervised by an
// errgroup.Group, bridging between the blocking conn and a pair of
// bounded in-memory queues that the poll-based methods operate on
// without ever blocking the caller.
package nettransport
