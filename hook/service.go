// Package hook implements a process-wide keyboard-event interceptor: a
// single low-level input hook observes every keystroke before the focused
// application consumes it, matches it against registered watch entries, and
// posts asynchronous notifications to their target windows, optionally
// suppressing the keystroke.
//
// The OS primitives (hook installation, key-state and focus queries,
// message posting) are injected through the Binding interface; the
// production Windows binding lives in the platform package.
package hook

import (
	"log/slog"
	"sync"
)

// MessageName is the fixed, globally unique name the notification message
// identifier is registered under. Consumers resolve the same name to
// recognize notifications in their own message loop.
const MessageName = "KeywatchHookKeyMessage"

// Service owns all interceptor state: the registry, the Win-key tracker,
// the installed hook handle and the subscriber reference count. Construct
// one per process; independent instances exist only in tests.
type Service struct {
	binding  Binding
	registry *Registry
	tracker  *WinKeyTracker

	msgOnce sync.Once
	msgID   uint32
	msgErr  error

	mu     sync.Mutex
	refs   int
	handle Handle
}

// New returns a service bound to b. No hook is installed until the first
// watcher is created.
func New(b Binding) *Service {
	return &Service{
		binding:  b,
		registry: NewRegistry(),
		tracker:  NewWinKeyTracker(b),
	}
}

// Registry returns the service's watch-entry registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// RequestKeyNotification registers a watch entry: whenever key goes down or
// up while target holds focus (and, for a nonzero mods mask, at least one
// required modifier is active), a KeyMessage is posted to target. block
// additionally suppresses the keystroke from the rest of the system.
// Registering an identical entry twice is a no-op.
func (s *Service) RequestKeyNotification(target Window, key uint32, mods Modifiers, block bool) {
	s.registry.Register(Entry{Target: target, Key: key, Mods: mods, Block: block})
}

// MessageID resolves the process-unique notification message identifier.
// The resolution happens once, on first use, and the result is stable for
// the process lifetime.
func (s *Service) MessageID() (uint32, error) {
	s.msgOnce.Do(func() {
		s.msgID, s.msgErr = s.binding.RegisterMessageID(MessageName)
	})
	return s.msgID, s.msgErr
}

// Subscribers returns the current subscriber reference count.
func (s *Service) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

// Installed reports whether the hook is currently installed.
func (s *Service) Installed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != 0
}

// acquire increments the subscriber count, installing the hook on the 0→1
// transition. The mutex serializes concurrent acquirers so exactly one
// performs the OS call. On install failure the count is left untouched.
func (s *Service) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		h, err := s.binding.InstallHook(s.Dispatch)
		if err != nil {
			return &InstallError{Err: err}
		}
		s.handle = h
	}
	s.refs++
	return nil
}

// release decrements the subscriber count, uninstalling the hook on the 1→0
// transition. Calling release with no subscribers is a no-op.
func (s *Service) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		return nil
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}
	h := s.handle
	s.handle = 0
	if err := s.binding.UninstallHook(h); err != nil {
		return &UninstallError{Err: err}
	}
	return nil
}

// Watcher holds a subscription to the hook. The hook stays installed as
// long as at least one watcher is open.
type Watcher struct {
	svc      *Service
	once     sync.Once
	closeErr error
}

// NewWatcher acquires a hook subscription, installing the hook if this is
// the first open watcher.
func (s *Service) NewWatcher() (*Watcher, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	return &Watcher{svc: s}, nil
}

// Close releases the subscription, uninstalling the hook if this was the
// last open watcher. Subsequent calls are no-ops returning the first result.
func (w *Watcher) Close() error {
	w.once.Do(func() {
		w.closeErr = w.svc.release()
	})
	return w.closeErr
}

// Dispatch is the per-event decision. It is invoked by the binding for
// every raw event the hook observes and returns whether the event should be
// consumed. It runs on the thread owning the hook's message loop and must
// never block; notification posts are fire-and-forget.
//
// Failures inside dispatch (focus query, modifier query, delivery) are
// logged and force "pass through": letting them escape an OS-owned callback
// is not an option.
func (s *Service) Dispatch(actionable bool, kind EventKind, vk uint32) bool {
	s.tracker.Observe(kind, vk)
	if !actionable || !kind.isKey() {
		return false
	}

	focus, err := s.binding.ForegroundWindow()
	if err != nil {
		slog.Warn("keyhook: dropping event", "error", &FocusQueryError{Err: err})
		return false
	}

	matches := s.registry.Matches(focus, vk)
	if len(matches) == 0 {
		return false
	}

	mods, err := s.tracker.Snapshot()
	if err != nil {
		slog.Warn("keyhook: dropping event", "error", err)
		return false
	}

	msgID, err := s.MessageID()
	if err != nil {
		slog.Warn("keyhook: message identifier unresolved", "error", err)
		return false
	}

	consume := false
	failed := false
	for _, e := range matches {
		// A nonzero mask requires any one of its bits to be active, not
		// all of them. Long-standing behavior; registrants depend on it.
		if e.Mods != 0 && e.Mods&mods == 0 {
			continue
		}
		msg := KeyMessage{Key: vk, Mods: mods, Blocked: e.Block}
		if err := s.binding.PostKeyMessage(e.Target, msgID, msg); err != nil {
			slog.Warn("keyhook: notification failed", "error", &DeliveryError{Target: e.Target, Err: err})
			failed = true
			continue
		}
		if e.Block {
			consume = true
		}
	}
	if failed {
		return false
	}
	return consume
}
