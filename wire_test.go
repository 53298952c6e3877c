// Copyright (c) 2025 The guicore authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guicore

import "testing"

func TestValidateLengthBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		ty         uint32
		len        uint32
		wantKnown  bool
		wantOK     bool
	}{
		{"clipboard data at max", uint32(MsgClipboardData), MaxClipboardSize, true, true},
		{"clipboard data over max", uint32(MsgClipboardData), MaxClipboardSize + 1, true, false},
		{"window dump header too short", uint32(MsgWindowDump), 15, true, false},
		{"window dump header only", uint32(MsgWindowDump), 16, true, true},
		{"window dump unaligned tail", uint32(MsgWindowDump), 19, true, false},
		{"window dump one grant ref", uint32(MsgWindowDump), 20, true, true},
		{"resize is unknown", uint32(MsgResize), 0, false, false},
		{"resize is unknown regardless of length", uint32(MsgResize), 999, false, false},
		{"execute always invalid, empty", uint32(MsgExecute), 0, true, false},
		{"execute always invalid, nonempty", uint32(MsgExecute), 4, true, false},
		{"destroy must be empty", uint32(MsgDestroy), 0, true, true},
		{"destroy rejects nonempty", uint32(MsgDestroy), 1, true, false},
		{"keypress exact", uint32(MsgKeypress), sizeKeypress, true, true},
		{"keypress off by one", uint32(MsgKeypress), sizeKeypress - 1, true, false},
		{"mfndump aligned under cap", uint32(MsgMfnDump), 4, true, true},
		{"mfndump unaligned", uint32(MsgMfnDump), 5, true, false},
		{"unrecognized tag", 9999, 0, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			known, ok := validateLength(tc.ty, tc.len)
			if known != tc.wantKnown || ok != tc.wantOK {
				t.Fatalf("validateLength(%d, %d) = (%v, %v), want (%v, %v)",
					tc.ty, tc.len, known, ok, tc.wantKnown, tc.wantOK)
			}
		})
	}
}

func TestUntrustedHeaderValidate(t *testing.T) {
	t.Run("known valid", func(t *testing.T) {
		h := UntrustedHeader{Type: uint32(MsgFocus), Window: 7, UntrustedLen: sizeFocus}
		hdr, unknown, err := h.Validate()
		if err != nil || unknown {
			t.Fatalf("unexpected: hdr=%v unknown=%v err=%v", hdr, unknown, err)
		}
		if hdr.Type() != MsgFocus || hdr.Window() != 7 || hdr.Len() != sizeFocus {
			t.Fatalf("unexpected header: %+v", hdr)
		}
	})
	t.Run("known invalid", func(t *testing.T) {
		h := UntrustedHeader{Type: uint32(MsgFocus), Window: 0, UntrustedLen: sizeFocus + 1}
		_, unknown, err := h.Validate()
		if unknown || err == nil {
			t.Fatalf("expected BadLengthError, got unknown=%v err=%v", unknown, err)
		}
		if _, ok := err.(*BadLengthError); !ok {
			t.Fatalf("expected *BadLengthError, got %T", err)
		}
	})
	t.Run("unrecognized kind", func(t *testing.T) {
		h := UntrustedHeader{Type: 9999, Window: 0, UntrustedLen: 12}
		_, unknown, err := h.Validate()
		if !unknown || err != nil {
			t.Fatalf("expected unknown with nil err, got unknown=%v err=%v", unknown, err)
		}
	})
}

func TestFixedPayloadRoundTrips(t *testing.T) {
	kp := Keypress{Ty: KeyPress, Coordinates: Coordinates{X: -5, Y: 200}, State: 3, Keycode: 42}
	if got := DecodeKeypress(kp.Encode()); got != kp {
		t.Fatalf("Keypress round trip: got %+v, want %+v", got, kp)
	}

	mo := Motion{Coordinates: Coordinates{X: 1, Y: 2}, State: 1, IsHint: 1, Reserved: 0}
	if got := DecodeMotion(mo.Encode()); got != mo {
		t.Fatalf("Motion round trip: got %+v, want %+v", got, mo)
	}

	cr := Create{Rectangle: Rectangle{TopLeft: Coordinates{X: 0, Y: 0}, Size: WindowSize{Width: 640, Height: 480}}, Parent: 1, OverrideRedirect: 0}
	if got := DecodeCreate(cr.Encode()); got != cr {
		t.Fatalf("Create round trip: got %+v, want %+v", got, cr)
	}

	name := NewWMName("hello")
	decoded := DecodeWMName(name.Encode())
	if string(decoded.Data[:5]) != "hello" || decoded.Data[5] != 0 {
		t.Fatalf("WMName round trip failed: %q", decoded.Data[:10])
	}
}

func TestWindowDumpRoundTrip(t *testing.T) {
	wd := WindowDump{
		Header:    WindowDumpHeader{Ty: WindowDumpTypeGrantRefs, Width: 100, Height: 50, BPP: FramebufferBPP},
		GrantRefs: []uint32{1, 2, 3, 0xdeadbeef},
	}
	enc := wd.Encode()
	got := DecodeWindowDump(enc)
	if got.Header != wd.Header {
		t.Fatalf("header mismatch: %+v vs %+v", got.Header, wd.Header)
	}
	if len(got.GrantRefs) != len(wd.GrantRefs) {
		t.Fatalf("grant ref length mismatch: %d vs %d", len(got.GrantRefs), len(wd.GrantRefs))
	}
	for i := range wd.GrantRefs {
		if got.GrantRefs[i] != wd.GrantRefs[i] {
			t.Fatalf("grant ref %d mismatch: %#x vs %#x", i, got.GrantRefs[i], wd.GrantRefs[i])
		}
	}
}

func TestMsgString(t *testing.T) {
	if MsgKeypress.String() != "KEYPRESS" {
		t.Fatalf("got %q", MsgKeypress.String())
	}
	if Msg(9999).String() != "Msg(9999)" {
		t.Fatalf("got %q", Msg(9999).String())
	}
}
