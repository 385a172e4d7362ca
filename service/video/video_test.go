package video

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimClampsDuration(t *testing.T) {
	h := NewFakeHandle(10, nil)

	assert.InDelta(t, 8.0, Trim(h, 8).Duration(), 1e-9)
	assert.InDelta(t, 10.0, Trim(h, 12).Duration(), 1e-9)
}

func TestTrimRejectsFramesPastEnd(t *testing.T) {
	view := Trim(NewFakeHandle(10, nil), 5)

	_, err := view.FrameAt(4.9)
	assert.NoError(t, err)

	_, err = view.FrameAt(6)
	assert.Error(t, err)
}

func TestTrimCloseReleasesUnderlyingHandle(t *testing.T) {
	h := NewFakeHandle(3, nil)
	view := Trim(h, 1)

	require.NoError(t, view.Close())
	assert.True(t, h.Closed())
}

func TestFakeServiceOpen(t *testing.T) {
	svc := NewFake(map[string]float64{"a.mp4": 10})

	h, err := svc.Open("a.mp4")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, h.Duration(), 1e-9)

	_, err = svc.Open("missing.mp4")
	assert.Error(t, err)
	assert.Len(t, svc.Opened(), 1)
}

func TestFakeHandleFrameErr(t *testing.T) {
	decodeErr := errors.New("decode failed")
	h := NewFakeHandle(10, decodeErr)

	_, err := h.FrameAt(1)
	assert.ErrorIs(t, err, decodeErr)
}
