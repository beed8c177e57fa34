package common

// PauseView reports whether the platform is halted for value movement.
type PauseView interface {
	IsPaused() bool
}

// Guard returns ErrPlatformPaused when the platform is halted. A nil view is
// treated as always running.
func Guard(p PauseView) error {
	if p == nil {
		return nil
	}
	if p.IsPaused() {
		return ErrPlatformPaused
	}
	return nil
}
