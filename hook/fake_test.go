package hook

import (
	"sync"
)

// fakeBinding is an in-memory Binding for exercising the core without an
// OS. Key state, focus and failure injection are all settable per test.
type fakeBinding struct {
	mu sync.Mutex

	installs   int
	uninstalls int
	installErr error

	proc EventProc

	keysDown map[uint32]bool
	keyErr   error

	focus    Window
	focusErr error

	posted  []posted
	postErr error

	msgID    uint32
	msgIDErr error
	resolves int
}

type posted struct {
	target Window
	msgID  uint32
	msg    KeyMessage
}

func newFakeBinding() *fakeBinding {
	return &fakeBinding{
		keysDown: make(map[uint32]bool),
		msgID:    0xC0DE,
	}
}

func (b *fakeBinding) InstallHook(proc EventProc) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.installErr != nil {
		return 0, b.installErr
	}
	b.installs++
	b.proc = proc
	return Handle(b.installs), nil
}

func (b *fakeBinding) UninstallHook(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uninstalls++
	b.proc = nil
	return nil
}

func (b *fakeBinding) KeyDown(vk uint32) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keyErr != nil {
		return false, b.keyErr
	}
	return b.keysDown[vk], nil
}

func (b *fakeBinding) ForegroundWindow() (Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.focusErr != nil {
		return 0, b.focusErr
	}
	return b.focus, nil
}

func (b *fakeBinding) PostKeyMessage(target Window, msgID uint32, msg KeyMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.postErr != nil {
		return b.postErr
	}
	b.posted = append(b.posted, posted{target: target, msgID: msgID, msg: msg})
	return nil
}

func (b *fakeBinding) RegisterMessageID(name string) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resolves++
	if b.msgIDErr != nil {
		return 0, b.msgIDErr
	}
	return b.msgID, nil
}

func (b *fakeBinding) postedMessages() []posted {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]posted, len(b.posted))
	copy(out, b.posted)
	return out
}

func (b *fakeBinding) setKeyDown(vk uint32, down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keysDown[vk] = down
}

func (b *fakeBinding) counts() (installs, uninstalls int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.installs, b.uninstalls
}
