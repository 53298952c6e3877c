// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bo provides native byte order selection for guicore's grant
// reference array codec (wire.go's encodeU32Slice/decodeU32Slice), which
// copies the array as one block of bytes on little-endian hosts and uses a
// portable per-element fallback elsewhere.
//
// Implementation is architecture-specific via build tags where commonly known,
// and falls back to a portable runtime detection elsewhere.
package bo
