// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/vmconsole/guicore/internal/bo"
)

// Protocol-wide constants. Values are part of the wire contract and must
// not change.
const (
	// ListeningPort is the well-known port of the GUI connection; the
	// agent side listens on it and the daemon connects to it.
	ListeningPort = 6000

	// ProtocolVersionMajor and ProtocolVersionMinor make up the version this
	// package implements. PackedVersion is the wire representation.
	ProtocolVersionMajor uint32 = 1
	ProtocolVersionMinor uint32 = 7
	PackedVersion               = ProtocolVersionMajor<<16 | ProtocolVersionMinor

	// MaxClipboardSize bounds CLIPBOARD_DATA payloads.
	MaxClipboardSize uint32 = 65000

	// MaxWindowWidth and MaxWindowHeight bound CREATE/CONFIGURE rectangles.
	MaxWindowWidth  uint32 = 16384
	MaxWindowHeight uint32 = 6144

	// FramebufferBPP is the bit depth of the dummy framebuffer driver.
	FramebufferBPP uint32 = 32

	// PageSize is the shared-memory page size in bytes.
	PageSize uint32 = 4096

	// MaxWindowMem is the largest shared-memory segment a single window's
	// framebuffer can require.
	MaxWindowMem uint32 = MaxWindowWidth * MaxWindowHeight * (FramebufferBPP / 8)

	// MaxMfnCount and MaxGrantRefsCount bound the variable-length tail of
	// MFNDUMP and WINDOW_DUMP respectively.
	MaxMfnCount       uint32 = (MaxWindowMem + PageSize - 1) / PageSize
	MaxGrantRefsCount uint32 = (MaxWindowMem + PageSize - 1) / PageSize

	// CursorDefault, CursorX11, CursorX11Max describe valid Cursor payloads.
	CursorDefault uint32 = 0
	CursorX11     uint32 = 0x100
	CursorX11Max  uint32 = 0x19a

	// WindowDumpTypeGrantRefs is the only defined WindowDumpHeader.Type value.
	WindowDumpTypeGrantRefs uint32 = 0
)

// WindowHintsFlags is a bitmask of which WindowHints fields are populated.
type WindowHintsFlags uint32

const (
	USPosition WindowHintsFlags = 1 << 0
	PPosition  WindowHintsFlags = 1 << 2
	PMinSize   WindowHintsFlags = 1 << 4
	PMaxSize   WindowHintsFlags = 1 << 5
	PResizeInc WindowHintsFlags = 1 << 6
	PBaseSize  WindowHintsFlags = 1 << 8
)

// WindowFlag is a bitmask used by WindowFlags.Set/Unset.
type WindowFlag uint32

const (
	Fullscreen       WindowFlag = 1 << 0
	DemandsAttention WindowFlag = 1 << 1
	Minimize         WindowFlag = 1 << 2
)

// Key, button and focus event sub-types, carried in the Ty field of their
// respective messages.
const (
	KeyPress     uint32 = 2
	KeyRelease   uint32 = 3
	ButtonPress  uint32 = 4
	ButtonRelease uint32 = 5
	FocusIn      uint32 = 9
	FocusOut     uint32 = 10
)

// WindowID identifies a window, or the whole screen when zero. Zero is a
// representable, distinguishable value; this package never treats it
// specially on the wire. Whether a particular message legally targets
// window 0 is a semantic question for layers above this package.
type WindowID uint32

// Msg is a GUI protocol message kind. Tags are sparse and are part of the
// wire contract.
type Msg uint32

const (
	MsgKeypress       Msg = 124
	MsgButton         Msg = 125
	MsgMotion         Msg = 126
	MsgCrossing       Msg = 127
	MsgFocus          Msg = 128
	MsgResize         Msg = 129 // deprecated; no length rule, treated as unknown
	MsgCreate         Msg = 130
	MsgDestroy        Msg = 131
	MsgMap            Msg = 132
	MsgUnmap          Msg = 133
	MsgConfigure      Msg = 134
	MsgMfnDump        Msg = 135
	MsgShmImage       Msg = 136
	MsgClose          Msg = 137
	MsgExecute        Msg = 138 // deprecated; always invalid
	MsgClipboardReq   Msg = 139
	MsgClipboardData  Msg = 140
	MsgSetTitle       Msg = 141
	MsgKeymapNotify   Msg = 142
	MsgDock           Msg = 143
	MsgWindowHints    Msg = 144
	MsgWindowFlags    Msg = 145
	MsgWindowClass    Msg = 146
	MsgWindowDump     Msg = 147
	MsgCursor         Msg = 148
	MsgWindowDumpAck  Msg = 149
)

func (m Msg) String() string {
	switch m {
	case MsgKeypress:
		return "KEYPRESS"
	case MsgButton:
		return "BUTTON"
	case MsgMotion:
		return "MOTION"
	case MsgCrossing:
		return "CROSSING"
	case MsgFocus:
		return "FOCUS"
	case MsgResize:
		return "RESIZE"
	case MsgCreate:
		return "CREATE"
	case MsgDestroy:
		return "DESTROY"
	case MsgMap:
		return "MAP"
	case MsgUnmap:
		return "UNMAP"
	case MsgConfigure:
		return "CONFIGURE"
	case MsgMfnDump:
		return "MFNDUMP"
	case MsgShmImage:
		return "SHMIMAGE"
	case MsgClose:
		return "CLOSE"
	case MsgExecute:
		return "EXECUTE"
	case MsgClipboardReq:
		return "CLIPBOARD_REQ"
	case MsgClipboardData:
		return "CLIPBOARD_DATA"
	case MsgSetTitle:
		return "SET_TITLE"
	case MsgKeymapNotify:
		return "KEYMAP_NOTIFY"
	case MsgDock:
		return "DOCK"
	case MsgWindowHints:
		return "WINDOW_HINTS"
	case MsgWindowFlags:
		return "WINDOW_FLAGS"
	case MsgWindowClass:
		return "WINDOW_CLASS"
	case MsgWindowDump:
		return "WINDOW_DUMP"
	case MsgCursor:
		return "CURSOR"
	case MsgWindowDumpAck:
		return "WINDOW_DUMP_ACK"
	default:
		return fmt.Sprintf("Msg(%d)", uint32(m))
	}
}

// Message is implemented by every fixed-payload struct in this package. It
// lets Connection.Send pick the wire type tag automatically instead of
// requiring the caller to track it separately.
type Message interface {
	// Kind returns the wire message type this payload encodes as.
	Kind() Msg
	// Encode returns the wire representation of the payload.
	Encode() []byte
}

// headerLen is the size in bytes of the untrusted wire header.
const headerLen = 12

// UntrustedHeader is the exact triple transmitted on the wire: type,
// target window, and a length the sender does not need to have told the
// truth about. Both fields are untrusted until Validate succeeds.
type UntrustedHeader struct {
	Type         uint32
	Window       WindowID
	UntrustedLen uint32
}

func decodeUntrustedHeader(b []byte) UntrustedHeader {
	_ = b[headerLen-1] // bounds check hint
	return UntrustedHeader{
		Type:         binary.LittleEndian.Uint32(b[0:4]),
		Window:       WindowID(binary.LittleEndian.Uint32(b[4:8])),
		UntrustedLen: binary.LittleEndian.Uint32(b[8:12]),
	}
}

func (h UntrustedHeader) encode(dst []byte) {
	_ = dst[headerLen-1]
	binary.LittleEndian.PutUint32(dst[0:4], h.Type)
	binary.LittleEndian.PutUint32(dst[4:8], uint32(h.Window))
	binary.LittleEndian.PutUint32(dst[8:12], h.UntrustedLen)
}

// Header is an UntrustedHeader whose Type is a known message kind and whose
// UntrustedLen satisfies that kind's length rule. Only a Header may be
// surfaced to a Connection's caller.
type Header struct {
	inner UntrustedHeader
}

// Type returns the message kind. It is guaranteed to be a known kind.
func (h Header) Type() Msg { return Msg(h.inner.Type) }

// Window returns the target window. This has not been validated against
// any window-existence invariant — that is a semantic concern above this
// package.
func (h Header) Window() WindowID { return h.inner.Window }

// Len returns the validated body length. It is safe to use this to size a
// buffer or bound a read.
func (h Header) Len() int { return int(h.inner.UntrustedLen) }

// Inner returns the underlying UntrustedHeader. Validating it again is
// guaranteed to succeed.
func (h Header) Inner() UntrustedHeader { return h.inner }

// BadLengthError reports that a recognized message kind arrived with a
// disallowed length.
type BadLengthError struct {
	Type         uint32
	UntrustedLen uint32
}

func (e *BadLengthError) Error() string {
	return fmt.Sprintf("guicore: bad length %d for message of type %d", e.UntrustedLen, e.Type)
}

// validateLength implements the per-kind length rule table. known is false
// when ty is not a recognized message kind in any supported protocol
// version; in that case ok is meaningless. When known is true, ok reports
// whether untrustedLen is an acceptable length for that kind.
func validateLength(ty uint32, untrustedLen uint32) (known bool, ok bool) {
	switch Msg(ty) {
	case MsgButton:
		return true, untrustedLen == sizeButton
	case MsgKeypress:
		return true, untrustedLen == sizeKeypress
	case MsgMotion:
		return true, untrustedLen == sizeMotion
	case MsgCrossing:
		return true, untrustedLen == sizeCrossing
	case MsgFocus:
		return true, untrustedLen == sizeFocus
	case MsgCreate:
		return true, untrustedLen == sizeCreate
	case MsgDestroy:
		return true, untrustedLen == 0
	case MsgMap:
		return true, untrustedLen == sizeMapInfo
	case MsgUnmap:
		return true, untrustedLen == 0
	case MsgConfigure:
		return true, untrustedLen == sizeConfigure
	case MsgMfnDump:
		if untrustedLen%4 != 0 {
			return true, false
		}
		return true, untrustedLen/4 <= MaxMfnCount
	case MsgShmImage:
		return true, untrustedLen == sizeShmImage
	case MsgClose, MsgClipboardReq:
		return true, untrustedLen == 0
	case MsgClipboardData:
		return true, untrustedLen <= MaxClipboardSize
	case MsgSetTitle:
		return true, untrustedLen == sizeWMName
	case MsgKeymapNotify:
		return true, untrustedLen == sizeKeymapNotify
	case MsgDock:
		return true, untrustedLen == 0
	case MsgWindowHints:
		return true, untrustedLen == sizeWindowHints
	case MsgWindowFlags:
		return true, untrustedLen == sizeWindowFlags
	case MsgWindowClass:
		return true, untrustedLen == sizeWMClass
	case MsgWindowDump:
		if untrustedLen < sizeWindowDumpHeader {
			return true, false
		}
		refsLen := untrustedLen - sizeWindowDumpHeader
		return true, refsLen%4 == 0 && refsLen/4 <= MaxGrantRefsCount
	case MsgCursor:
		return true, untrustedLen == sizeCursor
	case MsgWindowDumpAck:
		return true, untrustedLen == 0
	case MsgExecute:
		return true, false
	default:
		// MsgResize (deprecated) and any other tag falls here: unknown.
		return false, false
	}
}

// Validate classifies an untrusted header per the per-kind length rule
// table. Exactly one of the three outcomes holds:
//   - known kind, good length: hdr is populated, err is nil, unknown is false.
//   - known kind, bad length: err is a *BadLengthError, unknown is false.
//   - unrecognized kind: unknown is true, hdr and err are zero/nil.
func (h UntrustedHeader) Validate() (hdr Header, unknown bool, err error) {
	known, ok := validateLength(h.Type, h.UntrustedLen)
	if !known {
		return Header{}, true, nil
	}
	if !ok {
		return Header{}, false, &BadLengthError{Type: h.Type, UntrustedLen: h.UntrustedLen}
	}
	return Header{inner: h}, false, nil
}

// Fixed payload sizes, in bytes. Three of these (Motion, Crossing, Create)
// include a trailing reserved field beyond what their "semantics" summary
// lists, to make the struct's encoded size match the wire length rule
// above exactly — both are part of the same contract and must agree.
const (
	sizeCoordinates      = 8
	sizeWindowSize       = 8
	sizeRectangle        = sizeCoordinates + sizeWindowSize
	sizeMapInfo          = 8
	sizeKeypress         = 20
	sizeButton           = 20
	sizeMotion           = 20
	sizeCrossing         = 36
	sizeFocus            = 12
	sizeCreate           = 28
	sizeConfigure        = sizeRectangle + 4
	sizeShmImage         = sizeRectangle
	sizeWindowHints      = 4 + 4*sizeWindowSize
	sizeWindowFlags      = 8
	sizeCursor           = 4
	sizeWMName           = 128
	sizeWMClass          = 128
	sizeKeymapNotify     = 32
	sizeWindowDumpHeader = 16
	sizeXConf            = 16
	sizeXConfVersion     = 4 + sizeXConf
)

func packVersion(major, minor uint32) uint32 { return major<<16 | minor }

func unpackVersion(v uint32) (major, minor uint32) { return v >> 16, v & 0xFFFF }

func getU32(b []byte, off int) uint32  { return binary.LittleEndian.Uint32(b[off : off+4]) }
func putU32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:off+4], v) }
func getI32(b []byte, off int) int32   { return int32(getU32(b, off)) }
func putI32(b []byte, off int, v int32) { putU32(b, off, uint32(v)) }

// Coordinates are X/Y pixel coordinates relative to the top-left of the
// screen.
type Coordinates struct {
	X, Y int32
}

func (c Coordinates) encode(dst []byte) {
	putI32(dst, 0, c.X)
	putI32(dst, 4, c.Y)
}

func decodeCoordinates(b []byte) Coordinates {
	return Coordinates{X: getI32(b, 0), Y: getI32(b, 4)}
}

// WindowSize is a width/height pair in pixels.
type WindowSize struct {
	Width, Height uint32
}

func (s WindowSize) encode(dst []byte) {
	putU32(dst, 0, s.Width)
	putU32(dst, 4, s.Height)
}

func decodeWindowSize(b []byte) WindowSize {
	return WindowSize{Width: getU32(b, 0), Height: getU32(b, 4)}
}

// Rectangle is a position and size.
type Rectangle struct {
	TopLeft Coordinates
	Size    WindowSize
}

func (r Rectangle) encode(dst []byte) {
	r.TopLeft.encode(dst[0:8])
	r.Size.encode(dst[8:16])
}

func decodeRectangle(b []byte) Rectangle {
	return Rectangle{TopLeft: decodeCoordinates(b[0:8]), Size: decodeWindowSize(b[8:16])}
}

// XConf is the root-window configuration sent during a pre-1.4 handshake.
type XConf struct {
	Size  WindowSize
	Depth uint32
	Mem   uint32
}

func (c XConf) Encode() []byte {
	b := make([]byte, sizeXConf)
	c.Size.encode(b[0:8])
	putU32(b, 8, c.Depth)
	putU32(b, 12, c.Mem)
	return b
}

func decodeXConf(b []byte) XConf {
	return XConf{Size: decodeWindowSize(b[0:8]), Depth: getU32(b, 8), Mem: getU32(b, 12)}
}

// XConfVersion is the negotiated version plus root-window configuration
// sent during a 1.4+ handshake.
type XConfVersion struct {
	Version uint32
	XConf   XConf
}

func (v XConfVersion) Encode() []byte {
	b := make([]byte, sizeXConfVersion)
	putU32(b, 0, v.Version)
	copy(b[4:], v.XConf.Encode())
	return b
}

func decodeXConfVersion(b []byte) XConfVersion {
	return XConfVersion{Version: getU32(b, 0), XConf: decodeXConf(b[4:sizeXConfVersion])}
}

// Keypress: daemon to agent, a key has been pressed or released. Ty is
// KeyPress or KeyRelease.
type Keypress struct {
	Ty          uint32
	Coordinates Coordinates
	State       uint32
	Keycode     uint32
}

func (Keypress) Kind() Msg { return MsgKeypress }
func (k Keypress) Encode() []byte {
	b := make([]byte, sizeKeypress)
	putU32(b, 0, k.Ty)
	k.Coordinates.encode(b[4:12])
	putU32(b, 12, k.State)
	putU32(b, 16, k.Keycode)
	return b
}

func DecodeKeypress(b []byte) Keypress {
	return Keypress{Ty: getU32(b, 0), Coordinates: decodeCoordinates(b[4:12]), State: getU32(b, 12), Keycode: getU32(b, 16)}
}

// Button: daemon to agent, a pointer button has been pressed or released.
// Ty is ButtonPress or ButtonRelease.
type Button struct {
	Ty          uint32
	Coordinates Coordinates
	State       uint32
	Button      uint32
}

func (Button) Kind() Msg { return MsgButton }
func (b Button) Encode() []byte {
	out := make([]byte, sizeButton)
	putU32(out, 0, b.Ty)
	b.Coordinates.encode(out[4:12])
	putU32(out, 12, b.State)
	putU32(out, 16, b.Button)
	return out
}

func DecodeButton(b []byte) Button {
	return Button{Ty: getU32(b, 0), Coordinates: decodeCoordinates(b[4:12]), State: getU32(b, 12), Button: getU32(b, 16)}
}

// Motion: daemon to agent, the pointer has moved. Reserved is unused and
// preserved for wire compatibility with the 20-byte wire length.
type Motion struct {
	Coordinates Coordinates
	State       uint32
	IsHint      uint32
	Reserved    uint32
}

func (Motion) Kind() Msg { return MsgMotion }
func (m Motion) Encode() []byte {
	b := make([]byte, sizeMotion)
	m.Coordinates.encode(b[0:8])
	putU32(b, 8, m.State)
	putU32(b, 12, m.IsHint)
	putU32(b, 16, m.Reserved)
	return b
}

func DecodeMotion(b []byte) Motion {
	return Motion{Coordinates: decodeCoordinates(b[0:8]), State: getU32(b, 8), IsHint: getU32(b, 12), Reserved: getU32(b, 16)}
}

// Crossing: daemon to agent, the pointer has entered or left a window.
// Reserved is unused and preserved for wire compatibility with the 36-byte
// wire length.
type Crossing struct {
	Ty          uint32
	Coordinates Coordinates
	State       uint32
	Mode        uint32
	Detail      uint32
	Focus       uint32
	Reserved    [2]uint32
}

func (Crossing) Kind() Msg { return MsgCrossing }
func (c Crossing) Encode() []byte {
	b := make([]byte, sizeCrossing)
	putU32(b, 0, c.Ty)
	c.Coordinates.encode(b[4:12])
	putU32(b, 12, c.State)
	putU32(b, 16, c.Mode)
	putU32(b, 20, c.Detail)
	putU32(b, 24, c.Focus)
	putU32(b, 28, c.Reserved[0])
	putU32(b, 32, c.Reserved[1])
	return b
}

func DecodeCrossing(b []byte) Crossing {
	return Crossing{
		Ty: getU32(b, 0), Coordinates: decodeCoordinates(b[4:12]), State: getU32(b, 12),
		Mode: getU32(b, 16), Detail: getU32(b, 20), Focus: getU32(b, 24),
		Reserved: [2]uint32{getU32(b, 28), getU32(b, 32)},
	}
}

// Focus: daemon to agent, a window has gained or lost focus. Ty is FocusIn
// or FocusOut. Mode must be 0.
type Focus struct {
	Ty, Mode, Detail uint32
}

func (Focus) Kind() Msg { return MsgFocus }
func (f Focus) Encode() []byte {
	b := make([]byte, sizeFocus)
	putU32(b, 0, f.Ty)
	putU32(b, 4, f.Mode)
	putU32(b, 8, f.Detail)
	return b
}

func DecodeFocus(b []byte) Focus {
	return Focus{Ty: getU32(b, 0), Mode: getU32(b, 4), Detail: getU32(b, 8)}
}

// MapInfo: bidirectional, metadata about a MAP message.
type MapInfo struct {
	TransientFor      uint32
	OverrideRedirect  uint32
}

func (MapInfo) Kind() Msg { return MsgMap }
func (m MapInfo) Encode() []byte {
	b := make([]byte, sizeMapInfo)
	putU32(b, 0, m.TransientFor)
	putU32(b, 4, m.OverrideRedirect)
	return b
}

func DecodeMapInfo(b []byte) MapInfo {
	return MapInfo{TransientFor: getU32(b, 0), OverrideRedirect: getU32(b, 4)}
}

// Create: agent to daemon, create a window. Reserved is unused and
// preserved for wire compatibility with the 28-byte wire length.
type Create struct {
	Rectangle        Rectangle
	Parent           uint32
	OverrideRedirect uint32
	Reserved         uint32
}

func (Create) Kind() Msg { return MsgCreate }
func (c Create) Encode() []byte {
	b := make([]byte, sizeCreate)
	c.Rectangle.encode(b[0:16])
	putU32(b, 16, c.Parent)
	putU32(b, 20, c.OverrideRedirect)
	putU32(b, 24, c.Reserved)
	return b
}

func DecodeCreate(b []byte) Create {
	return Create{
		Rectangle: decodeRectangle(b[0:16]), Parent: getU32(b, 16),
		OverrideRedirect: getU32(b, 20), Reserved: getU32(b, 24),
	}
}

// Configure: bidirectional, a window has been moved and/or resized.
type Configure struct {
	Rectangle        Rectangle
	OverrideRedirect uint32
}

func (Configure) Kind() Msg { return MsgConfigure }
func (c Configure) Encode() []byte {
	b := make([]byte, sizeConfigure)
	c.Rectangle.encode(b[0:16])
	putU32(b, 16, c.OverrideRedirect)
	return b
}

func DecodeConfigure(b []byte) Configure {
	return Configure{Rectangle: decodeRectangle(b[0:16]), OverrideRedirect: getU32(b, 16)}
}

// ShmImage: agent to daemon, redraw a rectangle from shared memory.
type ShmImage struct {
	Rectangle Rectangle
}

func (ShmImage) Kind() Msg { return MsgShmImage }
func (s ShmImage) Encode() []byte {
	b := make([]byte, sizeShmImage)
	s.Rectangle.encode(b)
	return b
}

func DecodeShmImage(b []byte) ShmImage {
	return ShmImage{Rectangle: decodeRectangle(b[0:16])}
}

// WindowHints: agent to daemon, window manager hints.
type WindowHints struct {
	Flags         WindowHintsFlags
	MinSize       WindowSize
	MaxSize       WindowSize
	SizeIncrement WindowSize
	SizeBase      WindowSize
}

func (WindowHints) Kind() Msg { return MsgWindowHints }
func (h WindowHints) Encode() []byte {
	b := make([]byte, sizeWindowHints)
	putU32(b, 0, uint32(h.Flags))
	h.MinSize.encode(b[4:12])
	h.MaxSize.encode(b[12:20])
	h.SizeIncrement.encode(b[20:28])
	h.SizeBase.encode(b[28:36])
	return b
}

func DecodeWindowHints(b []byte) WindowHints {
	return WindowHints{
		Flags: WindowHintsFlags(getU32(b, 0)), MinSize: decodeWindowSize(b[4:12]),
		MaxSize: decodeWindowSize(b[12:20]), SizeIncrement: decodeWindowSize(b[20:28]),
		SizeBase: decodeWindowSize(b[28:36]),
	}
}

// WindowFlags: bidirectional, set/unset window manager flags.
type WindowFlags struct {
	Set, Unset WindowFlag
}

func (WindowFlags) Kind() Msg { return MsgWindowFlags }
func (f WindowFlags) Encode() []byte {
	b := make([]byte, sizeWindowFlags)
	putU32(b, 0, uint32(f.Set))
	putU32(b, 4, uint32(f.Unset))
	return b
}

func DecodeWindowFlags(b []byte) WindowFlags {
	return WindowFlags{Set: WindowFlag(getU32(b, 0)), Unset: WindowFlag(getU32(b, 4))}
}

// Cursor: agent to daemon, set the cursor shape. A value of CursorDefault
// resets to the default cursor; a value v in [CursorX11, CursorX11Max]
// requests X11 cursor font glyph v-CursorX11.
type Cursor struct {
	Cursor uint32
}

func (Cursor) Kind() Msg { return MsgCursor }
func (c Cursor) Encode() []byte {
	b := make([]byte, sizeCursor)
	putU32(b, 0, c.Cursor)
	return b
}

func DecodeCursor(b []byte) Cursor {
	return Cursor{Cursor: getU32(b, 0)}
}

// WMName: agent to daemon, set the window title. Data is NUL-terminated.
type WMName struct {
	Data [128]byte
}

func (WMName) Kind() Msg { return MsgSetTitle }
func (n WMName) Encode() []byte {
	b := make([]byte, sizeWMName)
	copy(b, n.Data[:])
	return b
}

func DecodeWMName(b []byte) WMName {
	var n WMName
	copy(n.Data[:], b)
	return n
}

// NewWMName builds a WMName from a Go string, truncating and
// NUL-terminating it to fit the fixed 128-byte field.
func NewWMName(title string) WMName {
	var n WMName
	copy(n.Data[:len(n.Data)-1], title)
	return n
}

// WMClass: agent to daemon, set the window's X11 class hint.
type WMClass struct {
	ResClass [64]byte
	ResName  [64]byte
}

func (WMClass) Kind() Msg { return MsgWindowClass }
func (c WMClass) Encode() []byte {
	b := make([]byte, sizeWMClass)
	copy(b[0:64], c.ResClass[:])
	copy(b[64:128], c.ResName[:])
	return b
}

func DecodeWMClass(b []byte) WMClass {
	var c WMClass
	copy(c.ResClass[:], b[0:64])
	copy(c.ResName[:], b[64:128])
	return c
}

// KeymapNotify: daemon to agent, the keymap returned by XQueryKeymap.
type KeymapNotify struct {
	Keys [32]byte
}

func (KeymapNotify) Kind() Msg { return MsgKeymapNotify }
func (k KeymapNotify) Encode() []byte {
	b := make([]byte, sizeKeymapNotify)
	copy(b, k.Keys[:])
	return b
}

func DecodeKeymapNotify(b []byte) KeymapNotify {
	var k KeymapNotify
	copy(k.Keys[:], b)
	return k
}

// WindowDumpHeader is the fixed-size head of a WINDOW_DUMP message; it is
// followed by a variable-length array of grant references.
type WindowDumpHeader struct {
	Ty            uint32
	Width, Height uint32
	BPP           uint32
}

func (h WindowDumpHeader) encode(dst []byte) {
	putU32(dst, 0, h.Ty)
	putU32(dst, 4, h.Width)
	putU32(dst, 8, h.Height)
	putU32(dst, 12, h.BPP)
}

func decodeWindowDumpHeader(b []byte) WindowDumpHeader {
	return WindowDumpHeader{Ty: getU32(b, 0), Width: getU32(b, 4), Height: getU32(b, 8), BPP: getU32(b, 12)}
}

// WindowDump: agent to daemon, shared-memory grant reference dump.
type WindowDump struct {
	Header     WindowDumpHeader
	GrantRefs  []uint32
}

func (WindowDump) Kind() Msg { return MsgWindowDump }
func (w WindowDump) Encode() []byte {
	b := make([]byte, sizeWindowDumpHeader+len(w.GrantRefs)*4)
	w.Header.encode(b[0:sizeWindowDumpHeader])
	encodeU32Slice(b[sizeWindowDumpHeader:], w.GrantRefs)
	return b
}

func DecodeWindowDump(b []byte) WindowDump {
	return WindowDump{
		Header:    decodeWindowDumpHeader(b[0:sizeWindowDumpHeader]),
		GrantRefs: decodeU32Slice(b[sizeWindowDumpHeader:]),
	}
}

// MfnDump: agent to daemon, deprecated page-frame-number dump. No fixed
// header, just a tightly packed array of machine frame numbers.
type MfnDump struct {
	Mfns []uint32
}

func (MfnDump) Kind() Msg { return MsgMfnDump }
func (m MfnDump) Encode() []byte {
	b := make([]byte, len(m.Mfns)*4)
	encodeU32Slice(b, m.Mfns)
	return b
}

func DecodeMfnDump(b []byte) MfnDump {
	return MfnDump{Mfns: decodeU32Slice(b)}
}

// Zero-length messages. Each implements Message with an empty Encode.

type Destroy struct{}

func (Destroy) Kind() Msg      { return MsgDestroy }
func (Destroy) Encode() []byte { return nil }

type Unmap struct{}

func (Unmap) Kind() Msg      { return MsgUnmap }
func (Unmap) Encode() []byte { return nil }

type Dock struct{}

func (Dock) Kind() Msg      { return MsgDock }
func (Dock) Encode() []byte { return nil }

type Close struct{}

func (Close) Kind() Msg      { return MsgClose }
func (Close) Encode() []byte { return nil }

type ClipboardReq struct{}

func (ClipboardReq) Kind() Msg      { return MsgClipboardReq }
func (ClipboardReq) Encode() []byte { return nil }

type WindowDumpAck struct{}

func (WindowDumpAck) Kind() Msg      { return MsgWindowDumpAck }
func (WindowDumpAck) Encode() []byte { return nil }

// ClipboardData: bidirectional, raw clipboard bytes (up to MaxClipboardSize).
type ClipboardData struct {
	Data []byte
}

func (ClipboardData) Kind() Msg      { return MsgClipboardData }
func (c ClipboardData) Encode() []byte { return c.Data }

// encodeU32Slice and decodeU32Slice convert between a []uint32 and its
// little-endian wire representation. On little-endian hosts — the
// overwhelming common case (amd64, arm64, ...) — this reinterprets the
// slice's backing array directly instead of looping field by field, since
// a []uint32 with no padding between elements is byte-identical to its
// little-endian wire form on such hosts. Big-endian hosts fall back to an
// explicit per-element swap.
// forceSlowU32Path disables the unsafe fast path regardless of host byte
// order. It exists only so tests can exercise the portable fallback on
// little-endian test machines too.
var forceSlowU32Path = false

func encodeU32Slice(dst []byte, vals []uint32) {
	if len(vals) == 0 {
		return
	}
	if !forceSlowU32Path && bo.Native() == binary.LittleEndian {
		src := unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*4)
		copy(dst, src)
		return
	}
	for i, v := range vals {
		putU32(dst, i*4, v)
	}
}

func decodeU32Slice(b []byte) []uint32 {
	n := len(b) / 4
	if n == 0 {
		return nil
	}
	out := make([]uint32, n)
	if !forceSlowU32Path && bo.Native() == binary.LittleEndian {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), n*4)
		copy(dst, b[:n*4])
		return out
	}
	for i := range out {
		out[i] = getU32(b, i*4)
	}
	return out
}
