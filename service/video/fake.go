package video

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// FakeService opens synthetic fixed-duration videos keyed by path.
type FakeService struct {
	Durations map[string]float64
	// FrameErr, when set, is returned by every FrameAt call.
	FrameErr error

	mu      sync.Mutex
	handles []*FakeHandle
}

func NewFake(durations map[string]float64) *FakeService {
	return &FakeService{
		Durations: durations,
	}
}

func (svc *FakeService) Open(path string) (Handle, error) {
	duration, ok := svc.Durations[path]
	if !ok {
		return nil, fmt.Errorf("no such video: %s", path)
	}

	h := &FakeHandle{duration: duration, frameErr: svc.FrameErr}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.handles = append(svc.handles, h)
	return h, nil
}

// Opened returns every handle handed out so far.
func (svc *FakeService) Opened() []*FakeHandle {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]*FakeHandle(nil), svc.handles...)
}

type FakeHandle struct {
	duration float64
	frameErr error

	mu         sync.Mutex
	timestamps []float64
	closed     bool
}

func NewFakeHandle(duration float64, frameErr error) *FakeHandle {
	return &FakeHandle{duration: duration, frameErr: frameErr}
}

func (h *FakeHandle) Duration() float64 {
	return h.duration
}

func (h *FakeHandle) FrameAt(ts float64) (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, fmt.Errorf("handle closed")
	}
	if h.frameErr != nil {
		return nil, h.frameErr
	}
	if ts < 0 || ts > h.duration {
		return nil, fmt.Errorf("timestamp %.3fs outside [0, %.3f]", ts, h.duration)
	}

	h.timestamps = append(h.timestamps, ts)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	shade := uint8(int(ts*10) % 256)
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: 128, B: 255 - shade, A: 255})
		}
	}
	return img, nil
}

func (h *FakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *FakeHandle) Timestamps() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64(nil), h.timestamps...)
}

func (h *FakeHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
