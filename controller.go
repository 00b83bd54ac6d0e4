package swal

import (
	"fmt"
	"sync"
	"time"

	"swal/internal/telemetry"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
)

// State describes the controller's popup lifecycle phase.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
	StateReopenPending
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateReopenPending:
		return "reopen_pending"
	default:
		return "closed"
	}
}

type keyMap struct {
	Dismiss   key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
}

var defaultKeys = keyMap{
	Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	NextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	PrevFocus: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
}

// Controller governs at most one live alert popup. It owns the single
// then/auto-close slots of the current alert, queues reopen requests
// while a previous popup is still animating out, and guarantees the
// result callback is dispatched at most once per close.
//
// All state lives behind one mutex; callbacks and renderer calls run
// outside it so hooks are free to re-enter Fire or Close. A renderer
// must therefore never invoke controller hooks synchronously from
// within Mount, Unmount or SetHidden.
type Controller struct {
	cfg      Config
	renderer Renderer
	log      *telemetry.JSONLogger

	mu       sync.Mutex
	phase    State // Closed/Opening/Open/Closing only
	handle   Handle
	instance string

	then       func(Result)
	preConfirm func()
	preDeny    func()
	autoClose  bool
	animate    bool

	focus   focusRing
	timing  *transitionCache
	pending *Options
}

// New builds a Controller around the given renderer. The renderer is
// required: a controller without a view host cannot function, so a nil
// renderer is an environment error, not a default.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("swal: open event log: %w", err)
	}
	return &Controller{
		cfg:      cfg,
		renderer: cfg.Renderer,
		log:      log,
		timing:   newTransitionCache(),
	}, nil
}

// Fire opens an alert described by opts. If a previous popup is still
// on screen or animating out it is displaced: the current one closes
// silently and the new popup mounts once the old node has detached, so
// two nodes with the popup identity never coexist. While a reopen is
// pending, the most recent Fire wins.
func (c *Controller) Fire(opts Options) {
	c.mu.Lock()
	if c.phase == StateClosed && c.pending == nil {
		// Claim the transition while still holding the lock; a concurrent
		// Fire must observe Opening and queue instead of double-mounting.
		c.phase = StateOpening
		c.mu.Unlock()
		c.open(opts)
		return
	}
	queued := c.pending != nil
	c.pending = &opts
	if queued {
		c.mu.Unlock()
		c.log.Debug("popup.reopen_replaced", map[string]any{"title": opts.Title})
		return
	}
	delay := c.cfg.ReopenGuard
	if c.animate && c.handle != nil {
		delay += c.timing.duration(c.handle)
	}
	displaced := c.phase == StateOpen || c.phase == StateOpening
	c.mu.Unlock()

	if displaced {
		c.Close(nil)
	}
	c.log.Debug("popup.reopen_scheduled", map[string]any{"delay_ms": delay.Milliseconds()})
	time.AfterFunc(delay, c.openPending)
}

func (c *Controller) openPending() {
	c.mu.Lock()
	opts := c.pending
	c.pending = nil
	if opts == nil {
		c.mu.Unlock()
		return
	}
	if c.phase != StateClosed {
		// Detach timer has not run yet; try again shortly. A displacing
		// fire can race the mount and miss its silent close, so close
		// here when the old popup is still up.
		c.pending = opts
		stillUp := c.handle != nil && (c.phase == StateOpen || c.phase == StateOpening)
		c.mu.Unlock()
		if stillUp {
			c.Close(nil)
		}
		time.AfterFunc(c.cfg.ReopenGuard, c.openPending)
		return
	}
	c.phase = StateOpening
	c.mu.Unlock()
	c.open(*opts)
}

// open mounts and arms the reveal. Callers claim StateOpening under the
// lock before invoking it.
func (c *Controller) open(opts Options) {
	d := descriptorFor(opts)
	h, err := c.renderer.Mount(d)
	if err != nil {
		// A failed mount means the host view is broken; continuing
		// would leave the singleton in a corrupt half-open state.
		c.log.Error("popup.mount_failed", map[string]any{"error": err.Error()})
		panic(fmt.Errorf("swal: mount popup %q: %w", d.ID, err))
	}

	c.mu.Lock()
	c.handle = h
	c.instance = uuid.NewString()
	c.then = opts.Then
	c.preConfirm = opts.PreConfirm
	c.preDeny = opts.PreDeny
	c.autoClose = opts.AutoClose
	c.animate = opts.Animation
	c.focus.capture(c.renderer)
	inst := c.instance
	c.mu.Unlock()

	c.log.Info("popup.open", map[string]any{"instance": inst, "title": opts.Title})

	// Reveal one tick after the mount; flipping visibility in the same
	// paint as insertion would skip the open transition entirely.
	time.AfterFunc(c.cfg.RevealDelay, func() {
		c.mu.Lock()
		if c.handle != h || c.phase != StateOpening {
			c.mu.Unlock()
			return
		}
		c.phase = StateOpen
		c.mu.Unlock()
		h.SetHidden(false)
		if ring := focusables(h); len(ring) > 0 {
			ring[0].Focus()
		}
	})
}

// Close finalizes the current alert. A non-nil result is delivered to
// the stored Then callback exactly once, before the hide transition
// starts; nil closes silently with no dispatch (the way a host replaces
// a popup without firing a spurious result). Returns false when nothing
// is open to close.
func (c *Controller) Close(res *Result) bool {
	c.mu.Lock()
	if c.handle == nil || (c.phase != StateOpen && c.phase != StateOpening) {
		c.mu.Unlock()
		return false
	}
	h := c.handle
	inst := c.instance
	then := c.then
	c.then = nil
	c.preConfirm = nil
	c.preDeny = nil
	c.autoClose = true
	c.phase = StateClosing
	prev := c.focus.take()
	wait := time.Duration(0)
	if c.animate {
		wait = c.timing.duration(h)
	}
	c.mu.Unlock()

	if res != nil && then != nil {
		then(*res)
	}
	h.SetHidden(true)
	// Focus goes home now, not after the detach wait, or it would sit
	// on the document body for the length of the transition.
	if prev != nil {
		prev.Focus()
	}

	fields := map[string]any{"instance": inst, "wait_ms": wait.Milliseconds()}
	if res != nil {
		fields["confirmed"] = res.IsConfirmed
		fields["denied"] = res.IsDenied
		if res.IsDismissed {
			fields["dismiss"] = res.Dismiss.String()
		}
	}
	c.log.Info("popup.close", fields)

	time.AfterFunc(wait, func() {
		c.renderer.Unmount(h) // idempotent, may race a newer popup harmlessly
		c.mu.Lock()
		if c.handle == h {
			c.handle = nil
			c.phase = StateClosed
		}
		c.mu.Unlock()
	})
	return true
}

// IsOpen reports whether a popup is mounted and not yet closing.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == StateOpen || c.phase == StateOpening
}

// State returns the lifecycle phase, reporting StateReopenPending while
// a queued fire waits for the previous popup to detach.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		return StateReopenPending
	}
	return c.phase
}

// Focusables returns the open popup's focusable controls in order.
func (c *Controller) Focusables() []Control {
	c.mu.Lock()
	h := c.handle
	open := c.phase == StateOpen || c.phase == StateOpening
	c.mu.Unlock()
	if !open {
		return nil
	}
	return focusables(h)
}

// ConfirmButtons returns the mounted confirm button controls. The popup
// skeleton only ever renders one, but the lookup is structural, so the
// accessor hands back a collection.
func (c *Controller) ConfirmButtons() []Control { return c.buttons(ButtonConfirm) }

// DenyButtons returns the mounted deny button controls.
func (c *Controller) DenyButtons() []Control { return c.buttons(ButtonDeny) }

// CancelButtons returns the mounted cancel button controls.
func (c *Controller) CancelButtons() []Control { return c.buttons(ButtonCancel) }

func (c *Controller) buttons(kind ButtonKind) []Control {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	if h == nil {
		return nil
	}
	var out []Control
	for _, ctl := range h.Controls() {
		if ctl.Kind() == kind {
			out = append(out, ctl)
		}
	}
	return out
}

// OnConfirm handles a confirm button press: the PreConfirm hook runs
// first, then a confirmed result is produced. The popup only closes
// itself when the alert's AutoClose is set; otherwise the callback runs
// and the popup stays, letting a pre hook veto the close (for instance
// by firing a nested alert).
func (c *Controller) OnConfirm() {
	pre, then, auto, ok := c.takeButtonState(true)
	if !ok {
		return
	}
	if pre != nil {
		pre()
	}
	res := Confirmed()
	if auto {
		c.Close(&res)
	} else if then != nil {
		then(res)
	}
}

// OnDeny handles a deny button press, mirroring OnConfirm with the
// PreDeny hook and a denied result.
func (c *Controller) OnDeny() {
	pre, then, auto, ok := c.takeButtonState(false)
	if !ok {
		return
	}
	if pre != nil {
		pre()
	}
	res := Denied()
	if auto {
		c.Close(&res)
	} else if then != nil {
		then(res)
	}
}

// OnCancel handles a cancel button press. There is no pre hook; the
// result is a dismissal with the Cancel reason.
func (c *Controller) OnCancel() {
	_, then, auto, ok := c.takeButtonState(true)
	if !ok {
		return
	}
	res := Canceled(DismissCancel)
	if auto {
		c.Close(&res)
	} else if then != nil {
		then(res)
	}
}

func (c *Controller) takeButtonState(confirm bool) (pre func(), then func(Result), auto, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != StateOpen && c.phase != StateOpening {
		return nil, nil, false, false
	}
	if confirm {
		pre = c.preConfirm
	} else {
		pre = c.preDeny
	}
	return pre, c.then, c.autoClose, true
}

// OnBackdrop handles a click outside the popup. Gated by AutoClose.
func (c *Controller) OnBackdrop() {
	c.dismiss(DismissBackdrop)
}

// OnEscape handles the Escape key. Gated by AutoClose.
func (c *Controller) OnEscape() {
	c.dismiss(DismissEsc)
}

func (c *Controller) dismiss(reason DismissReason) {
	c.mu.Lock()
	auto := c.autoClose
	open := c.phase == StateOpen || c.phase == StateOpening
	c.mu.Unlock()
	if !open || !auto {
		return
	}
	res := Canceled(reason)
	c.Close(&res)
}

// OnTab cycles the focus trap: Tab moves forward, Shift+Tab backward,
// wrapping at both ends. No-op with zero focusables or when closed.
func (c *Controller) OnTab(shift bool) {
	c.mu.Lock()
	h := c.handle
	open := c.phase == StateOpen
	c.mu.Unlock()
	if !open {
		return
	}
	if next := nextFocus(h, shift); next != nil {
		next.Focus()
	}
}

// HandleKey is the process-wide keydown hook. The host installs it once
// at startup by routing key messages here; installing it twice is a
// misuse the controller does not defend against. Returns true when the
// key was consumed by the open popup.
func (c *Controller) HandleKey(msg tea.KeyPressMsg) bool {
	if !c.IsOpen() {
		return false
	}
	switch {
	case key.Matches(msg, defaultKeys.Dismiss):
		c.OnEscape()
		return true
	case key.Matches(msg, defaultKeys.PrevFocus):
		c.OnTab(true)
		return true
	case key.Matches(msg, defaultKeys.NextFocus):
		c.OnTab(false)
		return true
	}
	return false
}

// CloseLog releases the event log file, if any.
func (c *Controller) CloseLog() error {
	return c.log.Close()
}
