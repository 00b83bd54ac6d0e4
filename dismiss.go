package swal

// DismissReason identifies which path dismissed an alert that closed
// without being confirmed or denied.
type DismissReason int

const (
	// DismissNone is the zero value and means the alert was not dismissed.
	DismissNone DismissReason = iota

	// DismissBackdrop: the user clicked outside the popup.
	DismissBackdrop

	// DismissCancel: the user activated the cancel button.
	DismissCancel

	// DismissClose is never produced by the controller itself. It is
	// reserved for hosts that call Close programmatically and want a way
	// to tell that apart from a user-driven dismissal.
	DismissClose

	// DismissEsc: the user pressed the Escape key.
	DismissEsc
)

func (d DismissReason) String() string {
	switch d {
	case DismissBackdrop:
		return "backdrop"
	case DismissCancel:
		return "cancel"
	case DismissClose:
		return "close"
	case DismissEsc:
		return "esc"
	default:
		return "none"
	}
}
