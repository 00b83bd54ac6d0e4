package swal

// Built-in button labels used when the corresponding text field is empty.
const (
	DefaultConfirmLabel = "Ok"
	DefaultDenyLabel    = "Deny"
	DefaultCancelLabel  = "Cancel"
)

// Options is the full configuration surface for one alert. Build values
// with NewOptions (or Basic/BasicIcon/Common) so the boolean defaults
// come out right; a zero Options literal shows no buttons and never
// auto-closes. Fields are copied when the alert is fired, so mutating an
// Options value afterwards has no effect on the live popup.
type Options struct {
	// Title of the alert. Empty means no title is displayed.
	Title string

	// Text is a description displayed below the title. Empty means no
	// description is displayed.
	Text string

	// Icon displayed above the title. nil behaves like IconNone.
	Icon Icon

	// Button visibility. NewOptions enables only the confirm button.
	ShowConfirmButton bool
	ShowDenyButton    bool
	ShowCancelButton  bool

	// Button labels. Empty string means "use the built-in label"
	// (Ok / Deny / Cancel).
	ConfirmButtonText string
	DenyButtonText    string
	CancelButtonText  string

	// PreConfirm runs before a confirmed result is produced, PreDeny
	// before a denied one. Either may fire a nested alert.
	PreConfirm func()
	PreDeny    func()

	// Then receives the Result when the alert produces one.
	Then func(Result)

	// AutoClose controls whether button presses, backdrop clicks and
	// Escape close the popup automatically. Defaults to true. Disabling
	// it is an accessibility hazard; use with care.
	AutoClose bool

	// Animation toggles the open/close transitions. Defaults to true.
	Animation bool

	// Body is optional markdown inserted between the description and the
	// buttons.
	Body string
}

// NewOptions returns Options with the stock defaults: confirm button
// shown, deny and cancel hidden, auto-close and animation on.
func NewOptions() Options {
	return Options{
		ShowConfirmButton: true,
		AutoClose:         true,
		Animation:         true,
	}
}

// Basic builds options for a plain alert with just a title.
func Basic(title string) Options {
	o := NewOptions()
	o.Title = title
	return o
}

// BasicIcon builds options for an alert with a title and an icon.
func BasicIcon(title string, icon Icon) Options {
	o := Basic(title)
	o.Icon = icon
	return o
}

// Common builds options for the usual title/text/icon combination.
func Common(title, text string, icon Icon) Options {
	o := BasicIcon(title, icon)
	o.Text = text
	return o
}

func (o Options) HasTitle() bool { return o.Title != "" }

func (o Options) HasText() bool { return o.Text != "" }

// HasConfirmButtonText reports whether a custom confirm label was given.
// When false the rendered label falls back to "Ok".
func (o Options) HasConfirmButtonText() bool { return o.ConfirmButtonText != "" }

// HasDenyButtonText reports whether a custom deny label was given. When
// false the rendered label falls back to "Deny".
func (o Options) HasDenyButtonText() bool { return o.DenyButtonText != "" }

// HasCancelButtonText reports whether a custom cancel label was given.
// When false the rendered label falls back to "Cancel".
func (o Options) HasCancelButtonText() bool { return o.CancelButtonText != "" }

// ConfirmLabel resolves the label rendered on the confirm button.
func (o Options) ConfirmLabel() string {
	if o.HasConfirmButtonText() {
		return o.ConfirmButtonText
	}
	return DefaultConfirmLabel
}

// DenyLabel resolves the label rendered on the deny button.
func (o Options) DenyLabel() string {
	if o.HasDenyButtonText() {
		return o.DenyButtonText
	}
	return DefaultDenyLabel
}

// CancelLabel resolves the label rendered on the cancel button.
func (o Options) CancelLabel() string {
	if o.HasCancelButtonText() {
		return o.CancelButtonText
	}
	return DefaultCancelLabel
}

func (o Options) icon() Icon {
	if o.Icon == nil {
		return IconNone
	}
	return o.Icon
}
