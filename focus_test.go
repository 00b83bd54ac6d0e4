package swal

import "testing"

func testHandleWithControls(specs ...*fakeControl) *fakeHandle {
	r := &fakeRenderer{}
	h := &fakeHandle{r: r, id: PopupID}
	for _, c := range specs {
		c.h = h
		h.controls = append(h.controls, c)
	}
	return h
}

func TestFocusablesFiltersDisabledAndInvisible(t *testing.T) {
	h := testHandleWithControls(
		&fakeControl{kind: ButtonConfirm, visible: true},
		&fakeControl{kind: ButtonDeny, visible: true, disabled: true},
		&fakeControl{kind: ButtonCancel},
	)
	ring := focusables(h)
	if len(ring) != 1 {
		t.Fatalf("focusables = %d, want 1", len(ring))
	}
	if ring[0].Kind() != ButtonConfirm {
		t.Fatalf("wrong control survived: %v", ring[0].Kind())
	}
}

func TestFocusablesNilHandle(t *testing.T) {
	if got := focusables(nil); got != nil {
		t.Fatalf("focusables(nil) = %v, want nil", got)
	}
}

func TestNextFocusCyclesForward(t *testing.T) {
	h := testHandleWithControls(
		&fakeControl{kind: ButtonConfirm, visible: true, focused: true},
		&fakeControl{kind: ButtonDeny, visible: true},
		&fakeControl{kind: ButtonCancel, visible: true},
	)
	next := nextFocus(h, false)
	if next == nil || next.Kind() != ButtonDeny {
		t.Fatalf("next = %v, want deny", next)
	}
}

func TestNextFocusWrapsAtBothEnds(t *testing.T) {
	h := testHandleWithControls(
		&fakeControl{kind: ButtonConfirm, visible: true},
		&fakeControl{kind: ButtonDeny, visible: true},
		&fakeControl{kind: ButtonCancel, visible: true, focused: true},
	)
	if next := nextFocus(h, false); next.Kind() != ButtonConfirm {
		t.Fatalf("forward wrap = %v, want confirm", next.Kind())
	}

	h.controls[2].focused = false
	h.controls[0].focused = true
	if next := nextFocus(h, true); next.Kind() != ButtonCancel {
		t.Fatalf("backward wrap = %v, want cancel", next.Kind())
	}
}

func TestNextFocusDefaultsToFirst(t *testing.T) {
	// No control reports focus, e.g. right after mount.
	h := testHandleWithControls(
		&fakeControl{kind: ButtonConfirm, visible: true},
		&fakeControl{kind: ButtonDeny, visible: true},
	)
	if next := nextFocus(h, false); next.Kind() != ButtonDeny {
		t.Fatalf("next from unfocused = %v, want deny", next.Kind())
	}
	if next := nextFocus(h, true); next.Kind() != ButtonDeny {
		t.Fatalf("prev from unfocused = %v, want deny (wrap)", next.Kind())
	}
}

func TestNextFocusEmptyRing(t *testing.T) {
	h := testHandleWithControls()
	if next := nextFocus(h, false); next != nil {
		t.Fatalf("next on empty ring = %v, want nil", next)
	}
}

func TestFocusRingCaptureAndTake(t *testing.T) {
	prev := &fakeFocusable{}
	r := &fakeRenderer{active: prev}

	var ring focusRing
	ring.capture(r)
	if got := ring.take(); got != Focusable(prev) {
		t.Fatalf("take = %v, want captured component", got)
	}
	if got := ring.take(); got != nil {
		t.Fatalf("second take = %v, want nil", got)
	}
}
