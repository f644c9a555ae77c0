//go:build windows

package platform

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"markestedt/keywatch/hook"
)

const (
	// Message-only windows are invisible, receive no input and exist purely
	// as PostMessage targets.
	hwndMessage = ^uintptr(2) // HWND_MESSAGE (-3)

	receiverClassName = "KeywatchReceiver"
	wmStopReceiver    = 0x8000 + 1 // WM_APP + 1
)

type wndclassex struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

var (
	classOnce sync.Once
	classErr  error
)

func registerReceiverClass() error {
	classOnce.Do(func() {
		name, err := windows.UTF16PtrFromString(receiverClassName)
		if err != nil {
			classErr = err
			return
		}
		wc := wndclassex{
			lpfnWndProc:   defWindowProc.Addr(),
			lpszClassName: name,
		}
		wc.cbSize = uint32(unsafe.Sizeof(wc))
		r, _, callErr := registerClassEx.Call(uintptr(unsafe.Pointer(&wc)))
		if r == 0 {
			classErr = fmt.Errorf("RegisterClassEx failed: %w", callErr)
		}
	})
	return classErr
}

// Receiver is a message-only window that consumers use as the target for
// their watch entries. Hook notifications posted to it are decoded and
// surfaced on the Events channel.
type Receiver struct {
	msgID  uint32
	hwnd   uintptr
	events chan KeyEvent
	once   sync.Once
}

// NewReceiver creates the message-only window and starts its message loop
// on a dedicated OS-locked goroutine. msgID is the resolved notification
// identifier the window listens for.
func NewReceiver(msgID uint32) (*Receiver, error) {
	r := &Receiver{
		msgID:  msgID,
		events: make(chan KeyEvent, 64),
	}

	errCh := make(chan error, 1)
	go r.run(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}
	return r, nil
}

// Handle returns the window identifier to register watch entries against.
func (r *Receiver) Handle() hook.Window {
	return hook.Window(r.hwnd)
}

// Events returns the decoded notification stream. The channel is closed
// when the receiver shuts down.
func (r *Receiver) Events() <-chan KeyEvent {
	return r.events
}

// Close tears down the receiver window. Idempotent.
func (r *Receiver) Close() {
	r.once.Do(func() {
		postMessage.Call(r.hwnd, wmStopReceiver, 0, 0)
	})
}

func (r *Receiver) run(errCh chan<- error) {
	// The window must be created and pumped on the same thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := registerReceiverClass(); err != nil {
		errCh <- err
		return
	}

	name, err := windows.UTF16PtrFromString(receiverClassName)
	if err != nil {
		errCh <- err
		return
	}
	hwnd, _, callErr := createWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(name)),
		0,
		0,
		0, 0, 0, 0,
		hwndMessage,
		0, 0, 0,
	)
	if hwnd == 0 {
		errCh <- fmt.Errorf("CreateWindowEx failed: %w", callErr)
		return
	}
	r.hwnd = hwnd
	errCh <- nil

	var m msg
	for {
		ret, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), hwnd, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		switch m.message {
		case r.msgID:
			km := decodeKeyMessage(m.wParam, m.lParam)
			evt := KeyEvent{
				Key:     km.Key,
				Mods:    km.Mods,
				Blocked: km.Blocked,
				When:    time.Now(),
			}
			select {
			case r.events <- evt:
			default:
				slog.Warn("receiver event dropped, channel full", "key", KeyName(evt.Key))
			}
		case wmStopReceiver:
			destroyWindow.Call(hwnd)
			close(r.events)
			return
		default:
			dispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
		}
	}
	close(r.events)
}
