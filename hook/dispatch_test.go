package hook

import (
	"errors"
	"testing"
)

const (
	winA Window = 0x1000
	winB Window = 0x2000
	vkA  uint32 = 0x41
)

func TestDispatchBlockingMatch(t *testing.T) {
	b := newFakeBinding()
	b.focus = winA
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, 0, true)

	consumed := svc.Dispatch(true, KindKeyDown, vkA)
	if !consumed {
		t.Fatal("blocking match did not consume the event")
	}

	msgs := b.postedMessages()
	if len(msgs) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(msgs))
	}
	got := msgs[0]
	if got.target != winA || got.msgID != b.msgID {
		t.Fatalf("message addressed to %#x id %#x, want %#x id %#x",
			got.target, got.msgID, winA, b.msgID)
	}
	if got.msg.Key != vkA || !got.msg.Blocked {
		t.Fatalf("message = %+v, want key %#x blocked", got.msg, vkA)
	}
}

func TestDispatchNonBlockingMatch(t *testing.T) {
	b := newFakeBinding()
	b.focus = winA
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, 0, false)

	if svc.Dispatch(true, KindKeyDown, vkA) {
		t.Fatal("non-blocking match consumed the event")
	}
	msgs := b.postedMessages()
	if len(msgs) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(msgs))
	}
	if msgs[0].msg.Blocked {
		t.Fatal("message reports blocked for a non-blocking entry")
	}
}

func TestDispatchNoMatch(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *fakeBinding, svc *Service)
		kind  EventKind
		vk    uint32
	}{
		{
			name:  "no entry for key",
			setup: func(b *fakeBinding, svc *Service) { b.focus = winA },
			kind:  KindKeyDown,
			vk:    vkA,
		},
		{
			name: "entry bound to another window",
			setup: func(b *fakeBinding, svc *Service) {
				b.focus = winB
				svc.RequestKeyNotification(winA, vkA, 0, true)
			},
			kind: KindKeyDown,
			vk:   vkA,
		},
		{
			name: "entry for another key",
			setup: func(b *fakeBinding, svc *Service) {
				b.focus = winA
				svc.RequestKeyNotification(winA, 0x42, 0, true)
			},
			kind: KindKeyDown,
			vk:   vkA,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBinding()
			svc := New(b)
			tt.setup(b, svc)
			if svc.Dispatch(true, tt.kind, tt.vk) {
				t.Fatal("event consumed, want pass through")
			}
			if got := b.postedMessages(); len(got) != 0 {
				t.Fatalf("delivered %d messages, want none", len(got))
			}
		})
	}
}

func TestDispatchGating(t *testing.T) {
	b := newFakeBinding()
	b.focus = winA
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, 0, true)

	// Informational callback: observed for tracking only, never matched.
	if svc.Dispatch(false, KindKeyDown, vkA) {
		t.Fatal("non-actionable event consumed")
	}
	// Non-key message kind.
	if svc.Dispatch(true, KindOther, vkA) {
		t.Fatal("non-key event consumed")
	}
	if got := b.postedMessages(); len(got) != 0 {
		t.Fatalf("delivered %d messages, want none", len(got))
	}
}

func TestDispatchModifierMaskAnyBit(t *testing.T) {
	// A Shift|Control mask matches with only Shift down: the mask test is
	// an OR across required bits, not a subset test.
	b := newFakeBinding()
	b.focus = winA
	b.setKeyDown(vkShift, true)
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, ModShift|ModControl, true)

	if !svc.Dispatch(true, KindKeyDown, vkA) {
		t.Fatal("mask with one active bit did not match")
	}
	msgs := b.postedMessages()
	if len(msgs) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(msgs))
	}
	if msgs[0].msg.Mods&ModShift == 0 {
		t.Fatalf("message modifiers = %v, want shift set", msgs[0].msg.Mods)
	}
}

func TestDispatchModifierMaskNoActiveBit(t *testing.T) {
	b := newFakeBinding()
	b.focus = winA
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, ModControl, true)

	if svc.Dispatch(true, KindKeyDown, vkA) {
		t.Fatal("mask with no active bit consumed the event")
	}
	if got := b.postedMessages(); len(got) != 0 {
		t.Fatalf("delivered %d messages, want none", len(got))
	}
}

func TestDispatchTrackedWinModifier(t *testing.T) {
	b := newFakeBinding()
	b.focus = winA
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, ModWin, false)

	// Win state comes from observed events, never from polling.
	svc.Dispatch(true, KindKeyDown, vkLWin)
	svc.Dispatch(true, KindKeyDown, vkA)

	msgs := b.postedMessages()
	if len(msgs) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(msgs))
	}
	mods := msgs[0].msg.Mods
	if mods&ModWin == 0 || mods&ModLeftWin == 0 || mods&ModRightWin != 0 {
		t.Fatalf("message modifiers = %v, want win+lwin only", mods)
	}

	// After release the mask no longer matches.
	svc.Dispatch(true, KindKeyUp, vkLWin)
	svc.Dispatch(true, KindKeyDown, vkA)
	if got := b.postedMessages(); len(got) != 1 {
		t.Fatalf("delivered %d messages after win release, want still 1", len(got))
	}
}

func TestDispatchMultipleEntries(t *testing.T) {
	b := newFakeBinding()
	b.focus = winA
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, 0, false)
	svc.RequestKeyNotification(winA, vkA, 0, true)

	// All matching entries are notified; suppression is the OR of their
	// block flags.
	if !svc.Dispatch(true, KindKeyDown, vkA) {
		t.Fatal("event not consumed despite a blocking entry")
	}
	msgs := b.postedMessages()
	if len(msgs) != 2 {
		t.Fatalf("delivered %d messages, want 2", len(msgs))
	}
	if msgs[0].msg.Blocked || !msgs[1].msg.Blocked {
		t.Fatalf("blocked flags = %v/%v, want false/true in insertion order",
			msgs[0].msg.Blocked, msgs[1].msg.Blocked)
	}
}

func TestDispatchErrorPolicy(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *fakeBinding)
	}{
		{"focus query failure", func(b *fakeBinding) { b.focusErr = errors.New("no focus") }},
		{"modifier query failure", func(b *fakeBinding) { b.keyErr = errors.New("state unavailable") }},
		{"delivery failure", func(b *fakeBinding) { b.postErr = errors.New("queue full") }},
		{"identifier resolution failure", func(b *fakeBinding) { b.msgIDErr = errors.New("atom table full") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBinding()
			b.focus = winA
			svc := New(b)
			svc.RequestKeyNotification(winA, vkA, ModShift, true)
			b.setKeyDown(vkShift, true)
			tt.setup(b)

			// Failures inside the callback must degrade to pass through,
			// never escape.
			if svc.Dispatch(true, KindKeyDown, vkA) {
				t.Fatal("event consumed despite internal failure")
			}
		})
	}
}

func TestDispatchKeyUpMatches(t *testing.T) {
	b := newFakeBinding()
	b.focus = winA
	svc := New(b)
	svc.RequestKeyNotification(winA, vkA, 0, false)

	if svc.Dispatch(true, KindKeyUp, vkA) {
		t.Fatal("key-up consumed for non-blocking entry")
	}
	if svc.Dispatch(true, KindSysKeyDown, vkA) {
		t.Fatal("sys-key-down consumed for non-blocking entry")
	}
	if got := b.postedMessages(); len(got) != 2 {
		t.Fatalf("delivered %d messages, want 2", len(got))
	}
}
