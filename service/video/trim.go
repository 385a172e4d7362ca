package video

import (
	"fmt"
	"image"
)

type trimmedHandle struct {
	Handle
	duration float64
}

// Trim returns a view of h covering [0, duration]. Closing the view closes h.
func Trim(h Handle, duration float64) Handle {
	if duration > h.Duration() {
		duration = h.Duration()
	}
	return &trimmedHandle{
		Handle:   h,
		duration: duration,
	}
}

func (t *trimmedHandle) Duration() float64 {
	return t.duration
}

func (t *trimmedHandle) FrameAt(ts float64) (image.Image, error) {
	if ts < 0 || ts > t.duration {
		return nil, fmt.Errorf("timestamp %.3fs outside trimmed range [0, %.3f]", ts, t.duration)
	}
	return t.Handle.FrameAt(ts)
}
