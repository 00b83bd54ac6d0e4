package swal

// Result is the outcome handed to an alert's Then callback when the
// popup closes with a decision. Exactly one of IsConfirmed, IsDenied and
// IsDismissed is true; Dismiss is meaningful only when IsDismissed is.
type Result struct {
	// IsConfirmed: the confirm button was activated. Value will be true.
	IsConfirmed bool

	// IsDenied: the deny button was activated. Value will be false.
	IsDenied bool

	// IsDismissed: the popup was dismissed (cancel button, backdrop,
	// Escape, or a programmatic close). Dismiss carries the reason.
	IsDismissed bool

	// Value mirrors the confirmed/denied outcome: true only for a
	// confirmed popup.
	Value bool

	// Dismiss is DismissNone unless IsDismissed is true.
	Dismiss DismissReason
}

// Confirmed builds the result of a confirmed popup.
func Confirmed() Result {
	return Result{IsConfirmed: true, Value: true}
}

// Denied builds the result of a denied popup.
func Denied() Result {
	return Result{IsDenied: true}
}

// Canceled builds the result of a dismissed popup with the given reason.
func Canceled(reason DismissReason) Result {
	return Result{IsDismissed: true, Dismiss: reason}
}
