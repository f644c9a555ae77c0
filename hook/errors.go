package hook

import "fmt"

// InstallError reports a failed hook installation. The subscriber count is
// left untouched when it is returned.
type InstallError struct {
	Err error
}

func (e *InstallError) Error() string { return fmt.Sprintf("hook install failed: %v", e.Err) }
func (e *InstallError) Unwrap() error { return e.Err }

// UninstallError reports a failed hook removal at the last-subscriber
// transition.
type UninstallError struct {
	Err error
}

func (e *UninstallError) Error() string { return fmt.Sprintf("hook uninstall failed: %v", e.Err) }
func (e *UninstallError) Unwrap() error { return e.Err }

// ModifierQueryError reports a failed key-state query while building a
// modifier snapshot.
type ModifierQueryError struct {
	Key uint32
	Err error
}

func (e *ModifierQueryError) Error() string {
	return fmt.Sprintf("modifier query failed for vk 0x%02X: %v", e.Key, e.Err)
}
func (e *ModifierQueryError) Unwrap() error { return e.Err }

// FocusQueryError reports a failed foreground-window query.
type FocusQueryError struct {
	Err error
}

func (e *FocusQueryError) Error() string { return fmt.Sprintf("focus query failed: %v", e.Err) }
func (e *FocusQueryError) Unwrap() error { return e.Err }

// DeliveryError reports a failed notification post to a target window.
type DeliveryError struct {
	Target Window
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery to window %#x failed: %v", uintptr(e.Target), e.Err)
}
func (e *DeliveryError) Unwrap() error { return e.Err }
