package hook

import (
	"errors"
	"testing"
)

func TestWinKeyTracking(t *testing.T) {
	b := newFakeBinding()
	tr := NewWinKeyTracker(b)

	snap := func() Modifiers {
		t.Helper()
		mods, err := tr.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		return mods
	}

	if got := snap(); got != 0 {
		t.Fatalf("initial snapshot = %v, want none", got)
	}

	tr.Observe(KindKeyDown, vkLWin)
	got := snap()
	if got&ModWin == 0 || got&ModLeftWin == 0 {
		t.Fatalf("after lwin down: snapshot = %v, want win+lwin", got)
	}
	if got&ModRightWin != 0 {
		t.Fatalf("after lwin down: snapshot = %v, rwin must stay clear", got)
	}

	tr.Observe(KindKeyUp, vkLWin)
	if got := snap(); got != 0 {
		t.Fatalf("after lwin up: snapshot = %v, want none", got)
	}
}

func TestWinKeyTrackerIgnoresOtherKeys(t *testing.T) {
	b := newFakeBinding()
	tr := NewWinKeyTracker(b)

	tr.Observe(KindKeyDown, 0x41)
	tr.Observe(KindSysKeyDown, vkShift)
	tr.Observe(KindOther, vkLWin) // informational, not a key event

	mods, err := tr.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if mods != 0 {
		t.Fatalf("snapshot = %v, want none", mods)
	}
}

func TestSnapshotPolledModifiers(t *testing.T) {
	tests := []struct {
		name string
		down []uint32
		want Modifiers
	}{
		{"generic shift", []uint32{vkShift}, ModShift},
		{"left control", []uint32{vkControl, vkLControl}, ModControl | ModLeftControl},
		{"right alt", []uint32{vkAlt, vkRAlt}, ModAlt | ModRightAlt},
		{
			"shift and control together",
			[]uint32{vkShift, vkLShift, vkControl, vkRControl},
			ModShift | ModLeftShift | ModControl | ModRightControl,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBinding()
			for _, vk := range tt.down {
				b.setKeyDown(vk, true)
			}
			tr := NewWinKeyTracker(b)
			mods, err := tr.Snapshot()
			if err != nil {
				t.Fatalf("Snapshot failed: %v", err)
			}
			if mods != tt.want {
				t.Fatalf("snapshot = %v, want %v", mods, tt.want)
			}
		})
	}
}

func TestSnapshotQueryFailure(t *testing.T) {
	b := newFakeBinding()
	b.keyErr = errors.New("access denied")
	tr := NewWinKeyTracker(b)

	_, err := tr.Snapshot()
	var mqe *ModifierQueryError
	if !errors.As(err, &mqe) {
		t.Fatalf("Snapshot error = %v, want *ModifierQueryError", err)
	}
	if !errors.Is(err, b.keyErr) {
		t.Fatalf("Snapshot error does not wrap the OS error: %v", err)
	}
}
