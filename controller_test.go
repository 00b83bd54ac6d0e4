package swal

import (
	"fmt"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

type fakeRenderer struct {
	mu         sync.Mutex
	transition string
	active     Focusable
	handles    []*fakeHandle
	events     []string
	live       int
	maxLive    int
	mounts     int
	unmounts   int
}

func (r *fakeRenderer) Mount(d Descriptor) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := &fakeHandle{r: r, id: d.ID, title: d.Title, hidden: true}
	for _, b := range d.Buttons {
		h.controls = append(h.controls, &fakeControl{h: h, kind: b.Kind, label: b.Label, visible: true})
	}
	r.handles = append(r.handles, h)
	r.mounts++
	r.live++
	if r.live > r.maxLive {
		r.maxLive = r.live
	}
	r.events = append(r.events, "mount:"+d.Title)
	return h, nil
}

func (r *fakeRenderer) Unmount(h Handle) {
	fh, ok := h.(*fakeHandle)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if fh.removed {
		return
	}
	fh.removed = true
	r.live--
	r.unmounts++
	r.events = append(r.events, "unmount:"+fh.title)
}

func (r *fakeRenderer) Active() Focusable {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *fakeRenderer) record(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *fakeRenderer) eventIndex(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

func (r *fakeRenderer) snapshot() (mounts, unmounts, maxLive int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounts, r.unmounts, r.maxLive
}

func (r *fakeRenderer) lastHandle() *fakeHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.handles) == 0 {
		return nil
	}
	return r.handles[len(r.handles)-1]
}

type fakeHandle struct {
	r        *fakeRenderer
	id       string
	title    string
	hidden   bool
	removed  bool
	controls []*fakeControl
}

func (h *fakeHandle) ID() string { return h.id }

func (h *fakeHandle) SetHidden(hidden bool) {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	if h.removed {
		return
	}
	h.hidden = hidden
	if hidden {
		h.r.events = append(h.r.events, "hide:"+h.title)
	} else {
		h.r.events = append(h.r.events, "reveal:"+h.title)
	}
}

func (h *fakeHandle) Hidden() bool {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	return h.hidden
}

func (h *fakeHandle) Controls() []Control {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	out := make([]Control, len(h.controls))
	for i, c := range h.controls {
		out[i] = c
	}
	return out
}

func (h *fakeHandle) CloseTransition() string { return h.r.transition }

type fakeControl struct {
	h        *fakeHandle
	kind     ButtonKind
	label    string
	focused  bool
	disabled bool
	visible  bool
	focuses  int
}

func (c *fakeControl) Focus() {
	c.h.r.mu.Lock()
	defer c.h.r.mu.Unlock()
	for _, sib := range c.h.controls {
		sib.focused = false
	}
	c.focused = true
	c.focuses++
	c.h.r.active = c
}

func (c *fakeControl) Blur() {
	c.h.r.mu.Lock()
	defer c.h.r.mu.Unlock()
	c.focused = false
}

func (c *fakeControl) Focused() bool {
	c.h.r.mu.Lock()
	defer c.h.r.mu.Unlock()
	return c.focused
}

func (c *fakeControl) Kind() ButtonKind { return c.kind }
func (c *fakeControl) Label() string    { return c.label }
func (c *fakeControl) Disabled() bool   { return c.disabled }
func (c *fakeControl) Visible() bool    { return c.visible }

type fakeFocusable struct {
	mu      sync.Mutex
	focuses int
}

func (f *fakeFocusable) Focus() {
	f.mu.Lock()
	f.focuses++
	f.mu.Unlock()
}

func (f *fakeFocusable) Blur() {}

func (f *fakeFocusable) focusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focuses
}

func newTestController(t *testing.T, transition string) (*Controller, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{transition: transition}
	c, err := New(Config{
		Renderer:    r,
		RevealDelay: time.Millisecond,
		ReopenGuard: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.CloseLog() })
	return c, r
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if !cond() {
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestNewRequiresRenderer(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestFireOpensAndReveals(t *testing.T) {
	c, r := newTestController(t, "0s")

	c.Fire(Basic("hello"))
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	h := r.lastHandle()
	if h == nil {
		t.Fatalf("no handle mounted")
	}
	if h.Hidden() {
		t.Fatalf("popup still hidden after reveal")
	}
	if got := r.eventIndex("mount:hello"); got != 0 {
		t.Fatalf("mount event index = %d, events %v", got, r.events)
	}
	waitFor(t, "initial focus", func() bool {
		ctls := h.Controls()
		return len(ctls) == 1 && ctls[0].Focused()
	})
	if !c.IsOpen() {
		t.Fatalf("IsOpen = false for open popup")
	}
}

func TestCloseDispatchesResultExactlyOnce(t *testing.T) {
	c, r := newTestController(t, "0s")

	var mu sync.Mutex
	var got []Result
	o := Basic("confirm me")
	o.Then = func(res Result) {
		mu.Lock()
		got = append(got, res)
		mu.Unlock()
	}
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	res := Confirmed()
	if !c.Close(&res) {
		t.Fatalf("Close returned false for open popup")
	}
	if c.Close(&res) {
		t.Fatalf("second Close returned true")
	}
	waitFor(t, "unmount", func() bool {
		_, unmounts, _ := r.snapshot()
		return unmounts == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("callback ran %d times, want 1", len(got))
	}
	if !got[0].IsConfirmed || !got[0].Value {
		t.Fatalf("unexpected result %+v", got[0])
	}
}

func TestCloseNilSkipsCallback(t *testing.T) {
	c, r := newTestController(t, "0s")

	called := false
	o := Basic("quiet")
	o.Then = func(Result) { called = true }
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	if !c.Close(nil) {
		t.Fatalf("Close(nil) returned false")
	}
	waitFor(t, "unmount", func() bool {
		_, unmounts, _ := r.snapshot()
		return unmounts == 1
	})
	if called {
		t.Fatalf("silent close ran the callback")
	}
}

func TestCloseWhenNothingOpen(t *testing.T) {
	c, _ := newTestController(t, "0s")
	res := Confirmed()
	if c.Close(&res) {
		t.Fatalf("Close returned true with nothing open")
	}
}

func TestConfirmRunsPreHookThenCallback(t *testing.T) {
	c, r := newTestController(t, "0s")

	o := Basic("confirm")
	o.PreConfirm = func() { r.record("pre_confirm") }
	o.Then = func(res Result) {
		if res.IsConfirmed {
			r.record("then_confirmed")
		}
	}
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.OnConfirm()
	waitFor(t, "callback", func() bool { return r.eventIndex("then_confirmed") >= 0 })

	pre := r.eventIndex("pre_confirm")
	then := r.eventIndex("then_confirmed")
	hide := r.eventIndex("hide:confirm")
	if pre < 0 || pre > then {
		t.Fatalf("pre hook order wrong: events %v", r.events)
	}
	if hide >= 0 && then > hide {
		t.Fatalf("callback ran after hide: events %v", r.events)
	}
	waitFor(t, "auto close unmount", func() bool {
		_, unmounts, _ := r.snapshot()
		return unmounts == 1
	})
}

func TestDenyRunsPreDeny(t *testing.T) {
	c, r := newTestController(t, "0s")

	o := NewOptions()
	o.Title = "deny"
	o.ShowDenyButton = true
	o.PreDeny = func() { r.record("pre_deny") }
	o.Then = func(res Result) {
		if res.IsDenied && !res.Value {
			r.record("then_denied")
		}
	}
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.OnDeny()
	waitFor(t, "callback", func() bool { return r.eventIndex("then_denied") >= 0 })
	if r.eventIndex("pre_deny") < 0 {
		t.Fatalf("pre deny hook never ran: events %v", r.events)
	}
}

func TestCancelReportsDismissReason(t *testing.T) {
	c, r := newTestController(t, "0s")

	var mu sync.Mutex
	var got *Result
	o := Basic("cancel")
	o.ShowCancelButton = true
	o.Then = func(res Result) {
		mu.Lock()
		got = &res
		mu.Unlock()
	}
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.OnCancel()
	waitFor(t, "callback", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil
	})
	mu.Lock()
	defer mu.Unlock()
	if !got.IsDismissed || got.Dismiss != DismissCancel {
		t.Fatalf("unexpected result %+v", *got)
	}
	_ = r
}

func TestEscapeAndBackdropHonorAutoClose(t *testing.T) {
	for _, dismiss := range []struct {
		name   string
		fire   func(c *Controller)
		reason DismissReason
	}{
		{"escape", func(c *Controller) { c.OnEscape() }, DismissEsc},
		{"backdrop", func(c *Controller) { c.OnBackdrop() }, DismissBackdrop},
	} {
		t.Run(dismiss.name, func(t *testing.T) {
			c, _ := newTestController(t, "0s")

			var mu sync.Mutex
			var got *Result
			o := Basic("dismiss me")
			o.Then = func(res Result) {
				mu.Lock()
				got = &res
				mu.Unlock()
			}
			c.Fire(o)
			waitFor(t, "open state", func() bool { return c.State() == StateOpen })

			dismiss.fire(c)
			waitFor(t, "callback", func() bool {
				mu.Lock()
				defer mu.Unlock()
				return got != nil
			})
			mu.Lock()
			if got.Dismiss != dismiss.reason {
				t.Fatalf("dismiss reason = %v, want %v", got.Dismiss, dismiss.reason)
			}
			mu.Unlock()
		})
	}

	t.Run("sticky popup ignores dismissal", func(t *testing.T) {
		c, _ := newTestController(t, "0s")

		o := Basic("sticky")
		o.AutoClose = false
		o.Then = func(Result) { t.Errorf("callback ran for ignored dismissal") }
		c.Fire(o)
		waitFor(t, "open state", func() bool { return c.State() == StateOpen })

		c.OnEscape()
		c.OnBackdrop()
		time.Sleep(20 * time.Millisecond)
		if !c.IsOpen() {
			t.Fatalf("sticky popup closed")
		}
	})
}

func TestStickyConfirmDispatchesWithoutClosing(t *testing.T) {
	c, r := newTestController(t, "0s")

	var mu sync.Mutex
	calls := 0
	o := Basic("sticky confirm")
	o.AutoClose = false
	o.Then = func(Result) {
		mu.Lock()
		calls++
		mu.Unlock()
	}
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.OnConfirm()
	c.OnConfirm()
	waitFor(t, "two callbacks", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	})
	if !c.IsOpen() {
		t.Fatalf("sticky popup closed on confirm")
	}
	if _, unmounts, _ := r.snapshot(); unmounts != 0 {
		t.Fatalf("sticky popup unmounted")
	}
}

func TestCloseWaitsForTransition(t *testing.T) {
	c, r := newTestController(t, "60ms")

	c.Fire(Basic("slow"))
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	if !c.Close(nil) {
		t.Fatalf("Close returned false")
	}
	if _, unmounts, _ := r.snapshot(); unmounts != 0 {
		t.Fatalf("node detached before the transition finished")
	}
	if got := c.State(); got != StateClosing {
		t.Fatalf("state = %v during transition, want %v", got, StateClosing)
	}
	waitFor(t, "delayed unmount", func() bool {
		_, unmounts, _ := r.snapshot()
		return unmounts == 1
	})
	waitFor(t, "closed state", func() bool { return c.State() == StateClosed })
}

func TestAnimationOffDetachesImmediately(t *testing.T) {
	c, r := newTestController(t, "5s")

	o := Basic("instant")
	o.Animation = false
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.Close(nil)
	waitFor(t, "immediate unmount", func() bool {
		_, unmounts, _ := r.snapshot()
		return unmounts == 1
	})
}

func TestFocusRestoredToPreviousComponent(t *testing.T) {
	c, r := newTestController(t, "60ms")

	prev := &fakeFocusable{}
	r.mu.Lock()
	r.active = prev
	r.mu.Unlock()

	c.Fire(Basic("focus"))
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.Close(nil)
	// Focus must come home right away, not after the detach wait.
	waitFor(t, "focus restore", func() bool { return prev.focusCount() == 1 })
	if _, unmounts, _ := r.snapshot(); unmounts != 0 {
		t.Fatalf("focus restored only after detach")
	}
}

func TestReopenDisplacesCurrentPopup(t *testing.T) {
	c, r := newTestController(t, "30ms")

	c.Fire(Basic("first"))
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.Fire(Basic("second"))
	if got := c.State(); got != StateReopenPending && got != StateClosing {
		t.Fatalf("state after displacing fire = %v", got)
	}
	waitFor(t, "second popup open", func() bool {
		h := r.lastHandle()
		return h != nil && h.title == "second" && c.State() == StateOpen
	})

	mounts, unmounts, maxLive := r.snapshot()
	if mounts != 2 || unmounts != 1 {
		t.Fatalf("mounts=%d unmounts=%d, want 2/1", mounts, unmounts)
	}
	if maxLive != 1 {
		t.Fatalf("two popup nodes coexisted (maxLive=%d)", maxLive)
	}
}

func TestPendingReopenLastWriterWins(t *testing.T) {
	c, r := newTestController(t, "30ms")

	c.Fire(Basic("first"))
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.Fire(Basic("second"))
	c.Fire(Basic("third"))
	waitFor(t, "final popup open", func() bool {
		h := r.lastHandle()
		return h != nil && h.title == "third" && c.State() == StateOpen
	})

	mounts, _, maxLive := r.snapshot()
	if mounts != 2 {
		t.Fatalf("mounts = %d, want 2 (second fire superseded)", mounts)
	}
	if maxLive != 1 {
		t.Fatalf("two popup nodes coexisted (maxLive=%d)", maxLive)
	}
	if r.eventIndex("mount:second") >= 0 {
		t.Fatalf("superseded popup was mounted: events %v", r.events)
	}
}

func TestDisplacedPopupClosesSilently(t *testing.T) {
	c, _ := newTestController(t, "30ms")

	o := Basic("displaced")
	o.Then = func(Result) { t.Errorf("displaced popup dispatched a result") }
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	c.Fire(Basic("replacement"))
	waitFor(t, "replacement open", func() bool { return c.State() == StateOpen && c.IsOpen() })
	time.Sleep(20 * time.Millisecond)
}

func TestConcurrentFiresNeverDoubleMount(t *testing.T) {
	c, r := newTestController(t, "0s")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Fire(Basic(fmt.Sprintf("racer %d", n)))
		}(i)
	}
	wg.Wait()

	waitFor(t, "open state", func() bool { return c.State() == StateOpen })
	if _, _, maxLive := r.snapshot(); maxLive != 1 {
		t.Fatalf("two popup nodes coexisted (maxLive=%d)", maxLive)
	}
}

func TestOnTabCyclesFocus(t *testing.T) {
	c, r := newTestController(t, "0s")

	o := Basic("tabbing")
	o.ShowDenyButton = true
	o.ShowCancelButton = true
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	h := r.lastHandle()
	waitFor(t, "initial focus", func() bool { return h.controls[0].Focused() })

	c.OnTab(false)
	if !h.controls[1].Focused() {
		t.Fatalf("tab did not advance focus")
	}
	c.OnTab(false)
	c.OnTab(false)
	if !h.controls[0].Focused() {
		t.Fatalf("tab did not wrap to the first control")
	}
	c.OnTab(true)
	if !h.controls[2].Focused() {
		t.Fatalf("shift+tab did not wrap to the last control")
	}
}

func TestButtonAccessors(t *testing.T) {
	c, _ := newTestController(t, "0s")

	o := Basic("accessors")
	o.ShowDenyButton = true
	o.ConfirmButtonText = "Yes!"
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	confirm := c.ConfirmButtons()
	if len(confirm) != 1 || confirm[0].Label() != "Yes!" {
		t.Fatalf("confirm buttons = %v", confirm)
	}
	if len(c.DenyButtons()) != 1 {
		t.Fatalf("deny button missing")
	}
	if len(c.CancelButtons()) != 0 {
		t.Fatalf("unexpected cancel button")
	}
	if got := len(c.Focusables()); got != 2 {
		t.Fatalf("focusables = %d, want 2", got)
	}
}

func TestHandleKeyRoutesPopupKeys(t *testing.T) {
	c, r := newTestController(t, "0s")

	if c.HandleKey(tea.KeyPressMsg{Code: tea.KeyEscape}) {
		t.Fatalf("key consumed with no popup open")
	}

	o := Basic("keys")
	o.ShowCancelButton = true
	c.Fire(o)
	waitFor(t, "open state", func() bool { return c.State() == StateOpen })

	h := r.lastHandle()
	waitFor(t, "initial focus", func() bool { return h.controls[0].Focused() })

	if !c.HandleKey(tea.KeyPressMsg{Code: tea.KeyTab}) {
		t.Fatalf("tab not consumed")
	}
	if !h.controls[1].Focused() {
		t.Fatalf("tab did not move focus")
	}
	if !c.HandleKey(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}) {
		t.Fatalf("shift+tab not consumed")
	}
	if !h.controls[0].Focused() {
		t.Fatalf("shift+tab did not move focus back")
	}
	if !c.HandleKey(tea.KeyPressMsg{Code: tea.KeyEscape}) {
		t.Fatalf("escape not consumed")
	}
	waitFor(t, "dismissed", func() bool { return c.State() == StateClosed })
}
