package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"swal"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
)

type applyMsg struct {
	fn func(*View)
}

type drawMsg struct{}
type animateMsg time.Time

// Controller is the slice of the alert controller the view dispatches
// into. Calls are made on fresh goroutines so the controller may call
// straight back into the renderer without deadlocking.
type Controller interface {
	OnConfirm()
	OnDeny()
	OnCancel()
	OnBackdrop()
	OnEscape()
	OnTab(shift bool)
}

type popupKeyMap struct {
	Activate key.Binding
	Next     key.Binding
	Prev     key.Binding
	Dismiss  key.Binding
}

func (k popupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Next, k.Dismiss}
}

func (k popupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Activate, k.Next}, {k.Prev, k.Dismiss}}
}

// View is the default popup renderer: a Bubble Tea model that draws the
// host content with the alert panel composed over it. It implements
// swal.Renderer; mounting is driven entirely by the controller.
type View struct {
	theme        Theme
	ascii        bool
	debug        bool
	styleVariant string
	motionLevel  string

	mu      sync.Mutex
	program *tea.Program
	running bool

	ctrl    Controller
	alert   *mountedAlert
	active  swal.Focusable
	content string

	cols int
	rows int

	help     help.Model
	keymap   popupKeyMap
	markdown *glamour.TermRenderer
	logger   *clog.Logger

	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	drawPending atomic.Bool

	// refreshed on every render, read by mouse handling in the same loop
	popupRect   rect
	buttonRow   int
	buttonSpans []buttonSpan

	lastInputEvent string
}

type buttonSpan struct {
	start, end int // absolute columns, half-open
	ctl        *buttonControl
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
	ThemePath    string
	Content      string
}

func New(opts Options) *View {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "swal-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(56),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	if opts.ThemePath != "" {
		loaded, err := LoadThemeFile(opts.ThemePath)
		if err != nil {
			logger.Warn("theme file rejected, using variant defaults", "path", opts.ThemePath, "err", err)
		} else {
			theme = loaded
		}
	}
	openDur := 300 * time.Millisecond
	if d, err := swal.ParseTransitionDuration(theme.OpenTransition); err == nil && d > 0 {
		openDur = d
	}
	spring := springFor(motionLevel, openDur)

	v := &View{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		content:      opts.Content,
		cols:         100,
		rows:         30,
		help:         h,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
	}
	v.keymap = popupKeyMap{
		Activate: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "choose")),
		Next:     key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	}
	return v
}

// Mount inserts the popup node, still hidden. A second mount while a
// node with the same identity is attached is refused: the controller
// serializes open/close, so a duplicate means the host wired two
// controllers to one view.
func (v *View) Mount(d swal.Descriptor) (swal.Handle, error) {
	v.mu.Lock()
	if v.alert != nil && !v.alert.removed {
		v.mu.Unlock()
		return nil, fmt.Errorf("ui: popup %q is already mounted", d.ID)
	}
	a := &mountedAlert{
		view:     v,
		id:       d.ID,
		uid:      uuid.NewString(),
		desc:     d,
		hidden:   true,
		focusIdx: -1,
	}
	for i, b := range d.Buttons {
		a.controls = append(a.controls, &buttonControl{alert: a, kind: b.Kind, label: b.Label, idx: i})
	}
	v.alert = a
	v.overlayPos = 0
	v.overlayVel = 0
	v.mu.Unlock()

	v.logger.Debug("popup mounted", "uid", a.uid, "title", d.Title, "buttons", len(a.controls))
	v.RequestDraw()
	return a, nil
}

// Unmount removes the popup node. Safe to call for a handle that was
// already unmounted or displaced by a newer popup.
func (v *View) Unmount(h swal.Handle) {
	a, ok := h.(*mountedAlert)
	if !ok || a == nil {
		return
	}
	v.mu.Lock()
	already := a.removed
	a.removed = true
	a.hidden = true
	a.focusIdx = -1
	if v.alert == a {
		v.alert = nil
	}
	v.mu.Unlock()
	if !already {
		v.logger.Debug("popup unmounted", "uid", a.uid)
	}
	v.RequestDraw()
}

// Active reports which focusable currently holds keyboard focus, either
// a popup button or whatever the host registered via SetActive.
func (v *View) Active() swal.Focusable {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// SetActive lets the host register its own focused element so the
// controller can restore focus there after the popup closes. A host
// Focusable should call SetActive from its Focus method.
func (v *View) SetActive(f swal.Focusable) {
	v.mu.Lock()
	v.active = f
	v.mu.Unlock()
}

func (v *View) SetController(c Controller) {
	v.ctrl = c
}

// SetContent replaces the host text drawn underneath the popup.
func (v *View) SetContent(content string) {
	v.apply(func(m *View) {
		m.content = content
	})
}

func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			v.onModelPanic("update", rec, msg)
			model = v
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.cols = msg.Width
		v.rows = msg.Height
		return v, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(v)
		}
		return v, v.animateIfNeeded()
	case drawMsg:
		v.drawPending.Store(false)
		return v, v.animateIfNeeded()
	case animateMsg:
		target := v.springTarget()
		v.overlayPos, v.overlayVel = v.spring.Update(v.overlayPos, v.overlayVel, target)
		if v.shouldAnimate(target) {
			return v, animateTickCmd()
		}
		v.overlayPos = target
		v.overlayVel = 0
		return v, nil
	case tea.MouseClickMsg:
		return v.handleMouseClick(msg)
	case tea.KeyPressMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			v.onModelPanic("view", rec, nil)
			width := max(1, v.cols)
			view = tea.NewView(trimForWidth("UI recovered from a rendering panic. Check logs.", width))
		}
	}()

	if v.cols < 1 {
		v.cols = 100
	}
	if v.rows < 1 {
		v.rows = 30
	}
	v.popupRect = rect{}
	v.buttonSpans = nil

	base := v.content
	if snap, ok := v.alertSnapshot(); ok {
		progress := v.overlayPos
		if v.snapMotion(snap.desc) {
			progress = 0
			if !snap.hidden {
				progress = 1
			}
		}
		if overlay, spans, row := v.renderPopup(snap, progress); overlay != "" {
			var placed rect
			base, placed = composeOverlay(base, overlay, v.cols, v.rows, v.theme.Overlay)
			v.popupRect = placed
			v.buttonRow = placed.row + 1 + row
			for _, s := range spans {
				s.start += placed.col + 1
				s.end += placed.col + 1
				v.buttonSpans = append(v.buttonSpans, s)
			}
		}
	}

	out := tea.NewView(base)
	out.AltScreen = true
	out.MouseMode = tea.MouseModeCellMotion
	return out
}

// alertSnapshot copies the fields rendering needs so View never holds
// the mutex while composing frames.
type alertFrame struct {
	alert   *mountedAlert
	desc    swal.Descriptor
	hidden  bool
	labels  []string
	focused int
	ctls    []*buttonControl
}

func (v *View) alertSnapshot() (alertFrame, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	a := v.alert
	if a == nil || a.removed {
		return alertFrame{}, false
	}
	f := alertFrame{alert: a, desc: a.desc, hidden: a.hidden, focused: a.focusIdx}
	for _, c := range a.controls {
		f.labels = append(f.labels, c.label)
		f.ctls = append(f.ctls, c)
	}
	return f, true
}

func (v *View) springTarget() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.alert != nil && !v.alert.removed && !v.alert.hidden {
		return 1.0
	}
	return 0.0
}

func (v *View) snapMotion(d swal.Descriptor) bool {
	return v.motionLevel == "off" || !d.Animate
}

func (v *View) renderPopup(f alertFrame, progress float64) (string, []buttonSpan, int) {
	if progress < 0.05 {
		return "", nil, 0
	}
	width := min(max(44, v.cols/2), max(20, v.cols-4))
	innerW := width - 2

	var lines []string
	if f.desc.Icon != nil && f.desc.Icon.Defined() {
		for _, ln := range strings.Split(strings.TrimSuffix(f.desc.Icon.Render(v.ascii), "\n"), "\n") {
			lines = append(lines, centerLine(ln, innerW))
		}
		lines = append(lines, "")
	}
	if f.desc.Title != "" {
		title := v.theme.OverlayTitle.Render(trimForWidth(f.desc.Title, innerW))
		lines = append(lines, centerLine(title, innerW))
		lines = append(lines, "")
	}
	if f.desc.Text != "" {
		for _, ln := range wrapText(f.desc.Text, innerW) {
			lines = append(lines, v.theme.PanelBody.Render(ln))
		}
		lines = append(lines, "")
	}
	if f.desc.Body != "" {
		body := f.desc.Body
		if v.markdown != nil {
			if rendered, err := v.markdown.Render(body); err == nil {
				body = strings.TrimSpace(rendered)
			}
		}
		for _, ln := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
			// glamour output carries its own styling, so clip it
			// ANSI-aware instead of stripping.
			lines = append(lines, ansi.Truncate(ln, innerW, "…"))
		}
		lines = append(lines, "")
	}

	row, spans := v.buttonRowLine(f, innerW)
	buttonIdx := -1
	if row != "" {
		buttonIdx = len(lines)
		lines = append(lines, row)
	}
	if keys := v.help.View(v.keymap); keys != "" {
		lines = append(lines, "")
		lines = append(lines, v.theme.Muted.Render(trimForWidth(keys, innerW)))
	}
	if len(lines) == 0 {
		lines = []string{"(empty)"}
	}

	// The panel grows from nothing during the open transition and
	// shrinks back during close.
	height := len(lines) + 2
	maxH := max(5, v.rows-2)
	if height > maxH {
		height = maxH
		lines = lines[:height-2]
		if buttonIdx >= height-2 {
			buttonIdx = -1
		}
	}
	shown := int(float64(height)*progress + 0.5)
	if shown < 3 {
		return "", nil, 0
	}
	panel := v.drawPanel(f.desc.Title, lines, width, height)
	if shown < height {
		panelLines := strings.Split(panel, "\n")
		panel = strings.Join(panelLines[:shown], "\n")
		if buttonIdx >= 0 && buttonIdx+1 >= shown {
			buttonIdx = -1
			spans = nil
		}
	}
	return panel, spans, buttonIdx
}

func (v *View) buttonRowLine(f alertFrame, innerW int) (string, []buttonSpan) {
	if len(f.labels) == 0 {
		return "", nil
	}
	openMark, closeMark := "▸", "◂"
	if v.ascii {
		openMark, closeMark = ">", "<"
	}
	var b strings.Builder
	var spans []buttonSpan
	col := 0
	for i, label := range f.labels {
		if i > 0 {
			b.WriteString("   ")
			col += 3
		}
		// Spans track plain cell columns; styling never changes widths.
		face := " " + label + " "
		width := len([]rune(face)) + 2
		if i == f.focused {
			b.WriteString(v.theme.Accent.Render(openMark))
			b.WriteString(v.theme.ButtonFocused.Render(face))
			b.WriteString(v.theme.Accent.Render(closeMark))
		} else {
			b.WriteString(" ")
			b.WriteString(v.theme.Button.Render(face))
			b.WriteString(" ")
		}
		spans = append(spans, buttonSpan{start: col, end: col + width, ctl: f.ctls[i]})
		col += width
	}
	row := b.String()
	pad := (innerW - col) / 2
	if pad > 0 {
		prefix := strings.Repeat(" ", pad)
		row = prefix + row
		for i := range spans {
			spans[i].start += pad
			spans[i].end += pad
		}
	}
	return ansi.Truncate(row, innerW, ""), spans
}

func centerLine(s string, width int) string {
	n := ansi.StringWidth(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func (v *View) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	vl := "│"
	tl, tr, bl, br := "┌", "┐", "└", "┘"
	if v.ascii {
		h = "-"
		vl = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}
	border := v.theme.PanelBorder
	side := border.Render(vl)

	top := border.Render(tl + strings.Repeat(h, innerW) + tr)
	if title != "" && innerW > 2 {
		t := " " + trimForWidth(title, innerW-2) + " "
		rest := innerW - len([]rune(t))
		top = border.Render(tl) + v.theme.OverlayTitle.Render(t) + border.Render(strings.Repeat(h, rest)+tr)
	}

	rows := make([]string, 0, height)
	rows = append(rows, top)
	for i := 0; i < innerH; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, side+padCell(line, innerW)+side)
	}
	rows = append(rows, border.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(rows, "\n")
}

func (v *View) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	v.lastInputEvent = fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text)

	snap, ok := v.alertSnapshot()
	if !ok || snap.hidden {
		return v, nil
	}
	switch {
	case key.Matches(msg, v.keymap.Dismiss):
		v.dispatchController(func(c Controller) { c.OnEscape() })
	case key.Matches(msg, v.keymap.Prev):
		v.dispatchController(func(c Controller) { c.OnTab(true) })
	case key.Matches(msg, v.keymap.Next):
		v.dispatchController(func(c Controller) { c.OnTab(false) })
	case key.Matches(msg, v.keymap.Activate):
		if ctl := snap.alert.focusedControl(); ctl != nil {
			v.activateButton(ctl)
		}
	}
	return v, nil
}

func (v *View) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	v.lastInputEvent = fmt.Sprintf("mouse_click:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button)

	if mouse.Button != tea.MouseLeft {
		return v, nil
	}
	snap, ok := v.alertSnapshot()
	if !ok || snap.hidden {
		return v, nil
	}
	if v.popupRect.width == 0 || !v.popupRect.contains(mouse.X, mouse.Y) {
		v.dispatchController(func(c Controller) { c.OnBackdrop() })
		return v, nil
	}
	if mouse.Y == v.buttonRow {
		for _, span := range v.buttonSpans {
			if mouse.X >= span.start && mouse.X < span.end {
				span.ctl.Focus()
				v.activateButton(span.ctl)
				break
			}
		}
	}
	return v, nil
}

func (v *View) activateButton(ctl *buttonControl) {
	switch ctl.kind {
	case swal.ButtonConfirm:
		v.dispatchController(func(c Controller) { c.OnConfirm() })
	case swal.ButtonDeny:
		v.dispatchController(func(c Controller) { c.OnDeny() })
	case swal.ButtonCancel:
		v.dispatchController(func(c Controller) { c.OnCancel() })
	}
}

func (v *View) dispatchController(fn func(Controller)) {
	if fn == nil || v.ctrl == nil {
		return
	}
	ctrl := v.ctrl
	go fn(ctrl)
}

func (v *View) Run() error {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(v)
	v.program = p
	v.running = true
	v.mu.Unlock()

	_, err := p.Run()

	v.mu.Lock()
	v.program = nil
	v.running = false
	v.mu.Unlock()
	return err
}

func (v *View) Stop() {
	v.mu.Lock()
	p := v.program
	v.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (v *View) RequestDraw() {
	v.mu.Lock()
	p := v.program
	running := v.running
	v.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !v.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		v.mu.Lock()
		p := v.program
		running := v.running
		v.mu.Unlock()
		if !running || p == nil {
			v.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

// nudgeAnimation wakes the spring after a visibility flip that happened
// off the message loop.
func (v *View) nudgeAnimation() {
	v.apply(func(*View) {})
}

func (v *View) apply(fn func(*View)) {
	if fn == nil {
		return
	}
	v.mu.Lock()
	p := v.program
	running := v.running
	if !running || p == nil {
		fn(v)
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (v *View) animateIfNeeded() tea.Cmd {
	if v.shouldAnimate(v.springTarget()) {
		return animateTickCmd()
	}
	return nil
}

func (v *View) shouldAnimate(target float64) bool {
	if v.motionLevel == "off" {
		return false
	}
	if target > 0 {
		return v.overlayPos < 0.999 || absFloat(v.overlayVel) > 0.001
	}
	return v.overlayPos > 0.001 || absFloat(v.overlayVel) > 0.001
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

// springFor sizes the reveal spring so it settles in roughly the
// theme's open transition time. An underdamped spring settles in about
// 4/(damping*frequency) seconds, which gives the frequency directly.
func springFor(motionLevel string, open time.Duration) harmonica.Spring {
	if motionLevel == "off" {
		return harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	secs := open.Seconds()
	if secs <= 0 {
		secs = 0.3
	}
	fps, damping := 60, 0.8
	if motionLevel == "reduced" {
		fps, damping = 30, 0.92
	}
	return harmonica.NewSpring(harmonica.FPS(fps), 4.0/(damping*secs), damping)
}

func (v *View) onModelPanic(where string, recovered any, msg tea.Msg) {
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	v.logger.Error("ui panic recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"messageType", msgType,
		"cols", v.cols,
		"rows", v.rows,
		"last_input", v.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*View)(nil)
var _ swal.Renderer = (*View)(nil)
