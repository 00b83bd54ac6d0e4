package ui

import (
	"swal"
)

// mountedAlert is the renderer-side node for one popup instance. It is
// handed to the controller as a swal.Handle and stays valid, though
// inert, after removal so a late SetHidden cannot corrupt a newer
// popup.
type mountedAlert struct {
	view *View
	id   string
	uid  string
	desc swal.Descriptor

	// guarded by view.mu
	hidden   bool
	removed  bool
	focusIdx int // -1 when no control has focus
	controls []*buttonControl
}

func (a *mountedAlert) ID() string { return a.id }

func (a *mountedAlert) SetHidden(hidden bool) {
	a.view.mu.Lock()
	if a.removed {
		a.view.mu.Unlock()
		return
	}
	a.hidden = hidden
	a.view.mu.Unlock()
	a.view.nudgeAnimation()
}

func (a *mountedAlert) Hidden() bool {
	a.view.mu.Lock()
	defer a.view.mu.Unlock()
	return a.hidden
}

func (a *mountedAlert) Controls() []swal.Control {
	a.view.mu.Lock()
	defer a.view.mu.Unlock()
	out := make([]swal.Control, len(a.controls))
	for i, c := range a.controls {
		out[i] = c
	}
	return out
}

// CloseTransition reports the theme's close transition in stylesheet
// syntax. The controller caches the parsed value per handle.
func (a *mountedAlert) CloseTransition() string {
	return a.view.theme.CloseTransition
}

func (a *mountedAlert) focusedControl() *buttonControl {
	a.view.mu.Lock()
	defer a.view.mu.Unlock()
	if a.removed || a.focusIdx < 0 || a.focusIdx >= len(a.controls) {
		return nil
	}
	return a.controls[a.focusIdx]
}

// buttonControl is one action button inside a mounted popup.
type buttonControl struct {
	alert *mountedAlert
	kind  swal.ButtonKind
	label string
	idx   int
}

func (b *buttonControl) Focus() {
	v := b.alert.view
	v.mu.Lock()
	if !b.alert.removed {
		b.alert.focusIdx = b.idx
		v.active = b
	}
	v.mu.Unlock()
	v.RequestDraw()
}

func (b *buttonControl) Blur() {
	v := b.alert.view
	v.mu.Lock()
	if b.alert.focusIdx == b.idx {
		b.alert.focusIdx = -1
	}
	if v.active == b {
		v.active = nil
	}
	v.mu.Unlock()
	v.RequestDraw()
}

func (b *buttonControl) Focused() bool {
	v := b.alert.view
	v.mu.Lock()
	defer v.mu.Unlock()
	return b.alert.focusIdx == b.idx
}

func (b *buttonControl) Kind() swal.ButtonKind { return b.kind }
func (b *buttonControl) Label() string         { return b.label }
func (b *buttonControl) Disabled() bool        { return false }
func (b *buttonControl) Visible() bool         { return true }

var _ swal.Handle = (*mountedAlert)(nil)
var _ swal.Control = (*buttonControl)(nil)
