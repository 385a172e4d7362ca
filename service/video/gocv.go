package video

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

type gocvService struct {
}

func NewGoCV() IService {
	return &gocvService{}
}

func (svc *gocvService) Open(path string) (Handle, error) {
	capture, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("error opening video %s: %w", path, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("video %s could not be opened", path)
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	frames := capture.Get(gocv.VideoCaptureFrameCount)

	// A stream without fps or frame count metadata reports a zero duration
	duration := 0.0
	if fps > 0 && frames > 0 {
		duration = frames / fps
	}

	return &gocvHandle{
		capture:  capture,
		path:     path,
		fps:      fps,
		duration: duration,
	}, nil
}

type gocvHandle struct {
	capture  *gocv.VideoCapture
	path     string
	fps      float64
	duration float64
}

func (h *gocvHandle) Duration() float64 {
	return h.duration
}

func (h *gocvHandle) FrameAt(ts float64) (image.Image, error) {
	if ts < 0 || ts > h.duration {
		return nil, fmt.Errorf("timestamp %.3fs outside [0, %.3f]", ts, h.duration)
	}

	// Seeking by frame index is more reliable than by msec across containers
	h.capture.Set(gocv.VideoCapturePosFrames, math.Floor(ts*h.fps))

	img := gocv.NewMat()
	defer img.Close() // Crucial to close the image to avoid memory leaks

	if ok := h.capture.Read(&img); !ok || img.Empty() {
		return nil, fmt.Errorf("no frame decoded at %.3fs in %s", ts, h.path)
	}

	frame, err := img.ToImage()
	if err != nil {
		return nil, fmt.Errorf("error converting frame at %.3fs: %w", ts, err)
	}

	return frame, nil
}

func (h *gocvHandle) Close() error {
	return h.capture.Close()
}
