package platform

import "markestedt/keywatch/hook"

// Notification wire format: the key code travels in wParam, the modifier
// bitset in the low 16 bits of lParam, the blocked flag in bit 16.
const blockedBit = 1 << 16

// encodeKeyMessage packs a hook.KeyMessage into PostMessage parameters.
func encodeKeyMessage(msg hook.KeyMessage) (wParam, lParam uintptr) {
	wParam = uintptr(msg.Key)
	lParam = uintptr(msg.Mods)
	if msg.Blocked {
		lParam |= blockedBit
	}
	return wParam, lParam
}

// decodeKeyMessage unpacks PostMessage parameters back into a message.
func decodeKeyMessage(wParam, lParam uintptr) hook.KeyMessage {
	return hook.KeyMessage{
		Key:     uint32(wParam),
		Mods:    hook.Modifiers(lParam & 0xFFFF),
		Blocked: lParam&blockedBit != 0,
	}
}
