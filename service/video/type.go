package video

import "image"

// Handle is an opened video. It is owned by one analysis and must be closed.
type Handle interface {
	Duration() float64 // seconds
	FrameAt(ts float64) (image.Image, error)
	Close() error
}

type IService interface {
	Open(path string) (Handle, error)
}
