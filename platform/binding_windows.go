//go:build windows

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"markestedt/keywatch/hook"
)

var (
	user32                = windows.NewLazySystemDLL("user32.dll")
	setWindowsHookEx      = user32.NewProc("SetWindowsHookExW")
	callNextHookEx        = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx   = user32.NewProc("UnhookWindowsHookEx")
	getAsyncKeyState      = user32.NewProc("GetAsyncKeyState")
	getForegroundWindow   = user32.NewProc("GetForegroundWindow")
	postMessage           = user32.NewProc("PostMessageW")
	registerWindowMessage = user32.NewProc("RegisterWindowMessageW")
	getMessage            = user32.NewProc("GetMessageW")
	peekMessage           = user32.NewProc("PeekMessageW")
	dispatchMessage       = user32.NewProc("DispatchMessageW")
	registerClassEx       = user32.NewProc("RegisterClassExW")
	createWindowEx        = user32.NewProc("CreateWindowExW")
	destroyWindow         = user32.NewProc("DestroyWindow")
	defWindowProc         = user32.NewProc("DefWindowProcW")
)

const (
	whKeyboardLL = 13
	hcAction     = 0
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	pmRemove     = 0x0001
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// kindFromMessage maps a hook wParam to the event kind the core understands.
func kindFromMessage(wParam uintptr) hook.EventKind {
	switch wParam {
	case wmKeydown:
		return hook.KindKeyDown
	case wmKeyup:
		return hook.KindKeyUp
	case wmSyskeydown:
		return hook.KindSysKeyDown
	case wmSyskeyup:
		return hook.KindSysKeyUp
	}
	return hook.KindOther
}

// WindowsBinding implements hook.Binding on top of user32. The installed
// hook runs on a dedicated OS-locked goroutine that owns the message loop,
// since WH_KEYBOARD_LL callbacks are delivered to the installing thread.
type WindowsBinding struct {
	mu   sync.Mutex
	done chan struct{}
}

// NewBinding creates a new Windows binding instance.
func NewBinding() *WindowsBinding {
	return &WindowsBinding{}
}

// InstallHook installs the process-wide low-level keyboard hook and starts
// its message loop. Events are routed to proc until UninstallHook.
func (b *WindowsBinding) InstallHook(proc hook.EventProc) (hook.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	done := make(chan struct{})
	errCh := make(chan error, 1)
	handleCh := make(chan uintptr, 1)
	go runHookLoop(proc, done, handleCh, errCh)

	if err := <-errCh; err != nil {
		return 0, err
	}
	b.done = done
	return hook.Handle(<-handleCh), nil
}

// UninstallHook removes the hook and stops its message loop.
func (b *WindowsBinding) UninstallHook(h hook.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done != nil {
		close(b.done)
		b.done = nil
	}
	r, _, err := unhookWindowsHookEx.Call(uintptr(h))
	if r == 0 {
		return fmt.Errorf("UnhookWindowsHookEx failed: %w", err)
	}
	return nil
}

func runHookLoop(proc hook.EventProc, done <-chan struct{}, handleCh chan<- uintptr, errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hookProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		actionable := nCode == hcAction
		kind := hook.KindOther
		var vk uint32
		if nCode >= 0 && lParam != 0 {
			kb := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			vk = kb.vkCode
			kind = kindFromMessage(wParam)
		}
		if proc(actionable, kind, vk) {
			// Nonzero swallows the event: the rest of the hook chain and
			// the focused application never see it.
			return 1
		}
		r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}

	h, _, err := setWindowsHookEx.Call(
		whKeyboardLL,
		windows.NewCallback(hookProc),
		0,
		0,
	)
	if h == 0 {
		errCh <- fmt.Errorf("SetWindowsHookEx failed: %w", err)
		return
	}
	errCh <- nil
	handleCh <- h

	// Pump messages so the hook keeps receiving callbacks. The loop only
	// ends when UninstallHook closes done.
	var m msg
	for {
		select {
		case <-done:
			return
		default:
			r, _, _ := peekMessage.Call(
				uintptr(unsafe.Pointer(&m)),
				0,
				0,
				0,
				pmRemove,
			)
			if r != 0 {
				continue
			}
			runtime.Gosched()
		}
	}
}

// KeyDown reports whether the given virtual key is currently down.
func (b *WindowsBinding) KeyDown(vk uint32) (bool, error) {
	r, _, _ := getAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0, nil
}

// ForegroundWindow returns the window currently holding input focus.
func (b *WindowsBinding) ForegroundWindow() (hook.Window, error) {
	r, _, _ := getForegroundWindow.Call()
	if r == 0 {
		return 0, fmt.Errorf("no window holds input focus")
	}
	return hook.Window(r), nil
}

// PostKeyMessage posts msg asynchronously to target. PostMessageW queues
// without waiting, which keeps the hook callback from ever blocking.
func (b *WindowsBinding) PostKeyMessage(target hook.Window, msgID uint32, m hook.KeyMessage) error {
	wParam, lParam := encodeKeyMessage(m)
	r, _, err := postMessage.Call(uintptr(target), uintptr(msgID), wParam, lParam)
	if r == 0 {
		return fmt.Errorf("PostMessage failed: %w", err)
	}
	return nil
}

// RegisterMessageID resolves a process-unique message identifier from a
// globally unique name. Every process registering the same name gets the
// same identifier.
func (b *WindowsBinding) RegisterMessageID(name string) (uint32, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, fmt.Errorf("invalid message name %q: %w", name, err)
	}
	r, _, callErr := registerWindowMessage.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return 0, fmt.Errorf("RegisterWindowMessage failed: %w", callErr)
	}
	return uint32(r), nil
}
