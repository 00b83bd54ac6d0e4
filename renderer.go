package swal

// Identity and accessibility attributes of the mounted popup. PopupID
// must be unique in the view tree; the controller's reopen queue
// guarantees a second mount never overlaps the first.
const (
	PopupID      = "swal"
	PopupRole    = "dialog"
	PopupTitleID = "swal-title"
)

// ButtonKind tags the three stock decision buttons.
type ButtonKind int

const (
	ButtonConfirm ButtonKind = iota
	ButtonDeny
	ButtonCancel
)

func (k ButtonKind) String() string {
	switch k {
	case ButtonDeny:
		return "deny"
	case ButtonCancel:
		return "cancel"
	default:
		return "confirm"
	}
}

// ButtonSpec describes one visible button for the renderer.
type ButtonSpec struct {
	Kind  ButtonKind
	Label string
}

// Descriptor is everything a renderer needs to mount a popup view. The
// popup mounts hidden; the controller flips visibility one tick later so
// the open transition actually animates.
type Descriptor struct {
	ID         string
	Role       string
	Modal      bool
	LabelledBy string

	Title   string
	Text    string
	Body    string
	Icon    Icon
	Buttons []ButtonSpec

	Animate bool
}

// Focusable is anything that can receive and give up input focus. Host
// applications register their focused component with the renderer so the
// controller can restore it after the popup closes.
type Focusable interface {
	Focus()
	Blur()
}

// Control is a focusable interactive element inside the popup.
type Control interface {
	Focusable
	Kind() ButtonKind
	Label() string
	Focused() bool
	Disabled() bool
	Visible() bool
}

// Handle is a mounted popup view.
type Handle interface {
	// ID returns the popup identity from the descriptor.
	ID() string

	// SetHidden flips the popup's accessibility-hidden flag, driving the
	// open/close transition.
	SetHidden(hidden bool)
	Hidden() bool

	// Controls returns the popup's interactive elements in display order.
	Controls() []Control

	// CloseTransition returns the stylesheet value for the close
	// transition duration, e.g. "0.25s" or "250ms".
	CloseTransition() string
}

// Renderer is the view collaborator that owns markup and styling. Mount
// returns an error if a popup with the same identity is still mounted;
// Unmount must be safe to call for an already-removed handle.
type Renderer interface {
	Mount(d Descriptor) (Handle, error)
	Unmount(h Handle)

	// Active returns the component currently holding input focus, or nil.
	Active() Focusable
}

func descriptorFor(o Options) Descriptor {
	d := Descriptor{
		ID:         PopupID,
		Role:       PopupRole,
		Modal:      true,
		LabelledBy: PopupTitleID,
		Title:      o.Title,
		Text:       o.Text,
		Body:       o.Body,
		Icon:       o.icon(),
		Animate:    o.Animation,
	}
	if o.ShowConfirmButton {
		d.Buttons = append(d.Buttons, ButtonSpec{Kind: ButtonConfirm, Label: o.ConfirmLabel()})
	}
	if o.ShowDenyButton {
		d.Buttons = append(d.Buttons, ButtonSpec{Kind: ButtonDeny, Label: o.DenyLabel()})
	}
	if o.ShowCancelButton {
		d.Buttons = append(d.Buttons, ButtonSpec{Kind: ButtonCancel, Label: o.CancelLabel()})
	}
	return d
}
