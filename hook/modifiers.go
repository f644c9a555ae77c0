package hook

import "strings"

// Modifiers is a bitset describing which modifier keys are active.
// The generic bits (ModShift, ModControl, ModAlt, ModWin) are set whenever
// either side is down; the sided bits identify left and right individually.
type Modifiers uint16

const (
	ModShift Modifiers = 1 << iota
	ModLeftShift
	ModRightShift
	ModControl
	ModLeftControl
	ModRightControl
	ModAlt
	ModLeftAlt
	ModRightAlt
	ModWin
	ModLeftWin
	ModRightWin
)

var modifierNames = []struct {
	bit  Modifiers
	name string
}{
	{ModShift, "shift"},
	{ModLeftShift, "lshift"},
	{ModRightShift, "rshift"},
	{ModControl, "ctrl"},
	{ModLeftControl, "lctrl"},
	{ModRightControl, "rctrl"},
	{ModAlt, "alt"},
	{ModLeftAlt, "lalt"},
	{ModRightAlt, "ralt"},
	{ModWin, "win"},
	{ModLeftWin, "lwin"},
	{ModRightWin, "rwin"},
}

// String returns a "+"-joined list of the active modifier names.
func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, mn := range modifierNames {
		if m&mn.bit != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// Virtual-key codes for the modifier keys the tracker and snapshot care about.
const (
	vkShift    = 0x10
	vkControl  = 0x11
	vkAlt      = 0x12 // VK_MENU
	vkLShift   = 0xA0
	vkRShift   = 0xA1
	vkLControl = 0xA2
	vkRControl = 0xA3
	vkLAlt     = 0xA4
	vkRAlt     = 0xA5
	vkLWin     = 0x5B
	vkRWin     = 0x5C
)
