package platform

import (
	"fmt"
	"time"

	"markestedt/keywatch/hook"
)

// KeyEvent is a decoded hook notification as received by a Receiver window.
type KeyEvent struct {
	Key     uint32
	Mods    hook.Modifiers
	Blocked bool
	When    time.Time
}

// vkCodes maps lower-case key names to Windows virtual-key codes.
var vkCodes = map[string]uint32{
	"a": 0x41, "b": 0x42, "c": 0x43, "d": 0x44, "e": 0x45,
	"f": 0x46, "g": 0x47, "h": 0x48, "i": 0x49, "j": 0x4A,
	"k": 0x4B, "l": 0x4C, "m": 0x4D, "n": 0x4E, "o": 0x4F,
	"p": 0x50, "q": 0x51, "r": 0x52, "s": 0x53, "t": 0x54,
	"u": 0x55, "v": 0x56, "w": 0x57, "x": 0x58, "y": 0x59, "z": 0x5A,
	"0": 0x30, "1": 0x31, "2": 0x32, "3": 0x33, "4": 0x34,
	"5": 0x35, "6": 0x36, "7": 0x37, "8": 0x38, "9": 0x39,
	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73,
	"f5": 0x74, "f6": 0x75, "f7": 0x76, "f8": 0x77,
	"f9": 0x78, "f10": 0x79, "f11": 0x7A, "f12": 0x7B,
	"space": 0x20, "enter": 0x0D, "esc": 0x1B,
	"tab": 0x09, "backspace": 0x08, "delete": 0x2E,
	"insert": 0x2D, "home": 0x24, "end": 0x23,
	"pageup": 0x21, "pagedown": 0x22,
	"left": 0x25, "up": 0x26, "right": 0x27, "down": 0x28,
}

var keyNames = func() map[uint32]string {
	m := make(map[uint32]string, len(vkCodes))
	for name, vk := range vkCodes {
		m[vk] = name
	}
	return m
}()

// VKCode returns the Windows virtual-key code for a key name.
func VKCode(key string) (uint32, error) {
	if code, ok := vkCodes[key]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key: %s", key)
}

// KeyName returns the name for a virtual-key code, or a hex code string for
// keys without one.
func KeyName(vk uint32) string {
	if name, ok := keyNames[vk]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", vk)
}
