package hook

// WinKeyTracker maintains pressed state for the left and right Win keys.
// Unlike Shift, Control and Alt, the Win keys cannot be reliably polled from
// inside a low-level hook callback, so their state is reconstructed from the
// down/up events the hook itself observes.
//
// Observe and Snapshot are only ever called from the hook callback thread,
// so the tracked flags need no locking.
type WinKeyTracker struct {
	keys     KeyStater
	leftWin  bool
	rightWin bool
}

// NewWinKeyTracker returns a tracker that polls directly-pollable modifiers
// through keys.
func NewWinKeyTracker(keys KeyStater) *WinKeyTracker {
	return &WinKeyTracker{keys: keys}
}

// Observe updates the tracked Win-key flags from a raw event. It must be
// called for every event the hook sees, regardless of match outcome; key
// codes other than the Win keys are ignored.
func (t *WinKeyTracker) Observe(kind EventKind, vk uint32) {
	if !kind.isKey() {
		return
	}
	switch vk {
	case vkLWin:
		t.leftWin = kind.isDown()
	case vkRWin:
		t.rightWin = kind.isDown()
	}
}

var polledModifiers = []struct {
	vk  uint32
	bit Modifiers
}{
	{vkShift, ModShift},
	{vkLShift, ModLeftShift},
	{vkRShift, ModRightShift},
	{vkControl, ModControl},
	{vkLControl, ModLeftControl},
	{vkRControl, ModRightControl},
	{vkAlt, ModAlt},
	{vkLAlt, ModLeftAlt},
	{vkRAlt, ModRightAlt},
}

// Snapshot returns the current modifier state: Shift, Control and Alt
// (generic plus left/right) polled through the binding, Win derived from the
// tracked flags. A failed poll is returned as a *ModifierQueryError.
func (t *WinKeyTracker) Snapshot() (Modifiers, error) {
	var mods Modifiers
	for _, pm := range polledModifiers {
		down, err := t.keys.KeyDown(pm.vk)
		if err != nil {
			return 0, &ModifierQueryError{Key: pm.vk, Err: err}
		}
		if down {
			mods |= pm.bit
		}
	}
	if t.leftWin {
		mods |= ModWin | ModLeftWin
	}
	if t.rightWin {
		mods |= ModWin | ModRightWin
	}
	return mods, nil
}
