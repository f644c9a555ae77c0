package hook

// Window is an opaque identifier for the window a notification is
// addressed to. On Windows this is an HWND.
type Window uintptr

// Handle is an opaque reference to the installed OS hook.
type Handle uintptr

// EventKind classifies a raw keyboard event as seen by the hook.
type EventKind int

const (
	KindOther EventKind = iota
	KindKeyDown
	KindKeyUp
	KindSysKeyDown
	KindSysKeyUp
)

// isKey reports whether the kind is an actionable key down/up event.
func (k EventKind) isKey() bool {
	switch k {
	case KindKeyDown, KindKeyUp, KindSysKeyDown, KindSysKeyUp:
		return true
	}
	return false
}

// isDown reports whether the kind is a down-family event.
func (k EventKind) isDown() bool {
	return k == KindKeyDown || k == KindSysKeyDown
}

// KeyMessage is the payload delivered to a target window when one of its
// watch entries matches. Built per match and handed to the binding.
type KeyMessage struct {
	Key     uint32
	Mods    Modifiers
	Blocked bool
}

// EventProc receives every event the installed hook observes. actionable is
// false for informational callbacks the OS asks to be passed along untouched.
// Returning true consumes the event, suppressing it from the rest of the
// hook chain and the focused application.
type EventProc func(actionable bool, kind EventKind, vk uint32) bool

// Binding abstracts the OS primitives the hook core depends on, so the core
// stays testable without a live message loop. The production implementation
// lives in the platform package.
type Binding interface {
	// InstallHook installs the process-wide low-level keyboard hook and
	// routes every observed event through proc until UninstallHook.
	InstallHook(proc EventProc) (Handle, error)

	// UninstallHook removes a previously installed hook.
	UninstallHook(h Handle) error

	// KeyDown reports whether the given virtual key is currently down.
	KeyDown(vk uint32) (bool, error)

	// ForegroundWindow returns the window currently holding input focus.
	ForegroundWindow() (Window, error)

	// PostKeyMessage posts msg asynchronously to target under the given
	// message identifier. It must not block or await acknowledgment.
	PostKeyMessage(target Window, msgID uint32, msg KeyMessage) error

	// RegisterMessageID resolves a process-unique message identifier from
	// a globally unique name. Stable for the process lifetime.
	RegisterMessageID(name string) (uint32, error)
}

// KeyStater is the slice of Binding the modifier tracker needs.
type KeyStater interface {
	KeyDown(vk uint32) (bool, error)
}
