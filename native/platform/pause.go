package platform

import "bankvest/native/common"

// PauseView adapts the engine to the common guard interface. Read failures
// and an uninitialized platform report as paused so value movement fails
// closed.
type PauseView struct {
	engine *Engine
}

var _ common.PauseView = (*PauseView)(nil)

// NewPauseView wraps the engine for guard checks.
func NewPauseView(engine *Engine) *PauseView {
	return &PauseView{engine: engine}
}

// IsPaused implements common.PauseView.
func (v *PauseView) IsPaused() bool {
	if v == nil || v.engine == nil {
		return true
	}
	p, err := v.engine.Get()
	if err != nil {
		return true
	}
	return p.Paused
}
