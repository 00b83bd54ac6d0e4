package swal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// transitionCache memoizes the close transition duration so teardown
// only parses the stylesheet value once per controller. The stylesheet
// is static within a session, so there is no invalidation.
type transitionCache struct {
	dur time.Duration // -1 until computed
}

func newTransitionCache() *transitionCache {
	return &transitionCache{dur: -1}
}

// duration resolves the handle's close transition duration, falling back
// to 0 (immediate detach) when the value is missing or malformed.
func (t *transitionCache) duration(h Handle) time.Duration {
	if t.dur >= 0 {
		return t.dur
	}
	d, err := ParseTransitionDuration(h.CloseTransition())
	if err != nil {
		d = 0
	}
	t.dur = d
	return d
}

// ParseTransitionDuration parses a stylesheet time-with-unit string
// such as "0.25s" or "250ms". A bare number is read as seconds.
// Renderers use it to turn theme transition values into timings.
func ParseTransitionDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty transition duration")
	}
	unit := time.Duration(float64(time.Second))
	switch {
	case strings.HasSuffix(s, "ms"):
		s = strings.TrimSuffix(s, "ms")
		unit = time.Millisecond
	case strings.HasSuffix(s, "s"):
		s = strings.TrimSuffix(s, "s")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse transition duration %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative transition duration %q", s)
	}
	return time.Duration(v * float64(unit)), nil
}
