package swal

// focusRing remembers which component held input focus before the popup
// opened and restores it when the popup closes. Restore runs exactly
// once per close, before the hide wait, so focus never visibly parks on
// the background for the length of the transition.
type focusRing struct {
	prev Focusable
}

func (f *focusRing) capture(r Renderer) {
	f.prev = r.Active()
}

// take returns the captured component and clears the capture.
func (f *focusRing) take() Focusable {
	p := f.prev
	f.prev = nil
	return p
}

// focusables returns the popup's controls that can currently take focus,
// in display order.
func focusables(h Handle) []Control {
	if h == nil {
		return nil
	}
	all := h.Controls()
	out := make([]Control, 0, len(all))
	for _, c := range all {
		if c.Disabled() || !c.Visible() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// nextFocus picks the control Tab (or Shift+Tab) should land on. The
// currently focused control defaults to index 0 when none matches; the
// cycle wraps at both ends. Returns nil when there is nothing to focus.
func nextFocus(h Handle, shift bool) Control {
	ring := focusables(h)
	n := len(ring)
	if n == 0 {
		return nil
	}
	idx := 0
	for i, c := range ring {
		if c.Focused() {
			idx = i
			break
		}
	}
	if shift {
		idx = (idx - 1 + n) % n
	} else {
		idx = (idx + 1) % n
	}
	return ring[idx]
}
