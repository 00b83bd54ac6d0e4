package swal

import (
	"errors"
	"time"
)

// Config controls a Controller's runtime behavior.
type Config struct {
	// Renderer is the view collaborator. Required.
	Renderer Renderer

	// LogPath is an optional JSONL file receiving lifecycle events.
	// Empty disables event logging.
	LogPath string

	// Debug additionally logs reopen scheduling and other noisy events.
	Debug bool

	// RevealDelay is the gap between mounting a popup and marking it
	// visible, so the open transition animates. Defaults to one frame.
	RevealDelay time.Duration

	// ReopenGuard pads the reopen delay when a fire displaces a popup
	// that is still animating out, guarding against the timer beating
	// the detach. Defaults to 10ms.
	ReopenGuard time.Duration
}

func (c *Config) Validate() error {
	if c.Renderer == nil {
		return errors.New("swal: config requires a renderer")
	}
	if c.RevealDelay <= 0 {
		c.RevealDelay = 16 * time.Millisecond
	}
	if c.ReopenGuard <= 0 {
		c.ReopenGuard = 10 * time.Millisecond
	}
	return nil
}
