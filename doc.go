// Package swal implements a modal alert/confirm popup widget for
// terminal UIs: a single shared popup opened with configurable content
// (title, text, icon, buttons), collecting one user decision
// (confirm / deny / dismiss) and reporting it through a callback.
//
// The hard part is not drawing the popup, it is the lifecycle: open and
// close transitions gated by the theme's transition timing, a keyboard
// focus trap while the popup is up, reopen requests arriving while a
// previous popup is still animating out, and at-most-once dispatch of
// the result callback across every closing path (confirm, deny, cancel,
// backdrop click, Escape, programmatic Close).
//
// A Controller drives one Renderer. The swal/ui package provides the
// default Bubble Tea renderer; any view layer can participate by
// implementing Renderer, Handle and Control.
//
//	view := ui.New(ui.Options{})
//	ctrl, err := swal.New(swal.Config{Renderer: view})
//	if err != nil { ... }
//	view.SetController(ctrl)
//
//	ctrl.Fire(swal.Common("Delete file?", "This cannot be undone.", swal.IconWarning))
package swal
