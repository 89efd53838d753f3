package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoFrame is returned when the sensor produced no usable frame this
// capture (hardware busy, command failure, truncated output). It is a
// per-cycle condition, not a fault: the caller simply tries again next cycle.
var ErrNoFrame = errors.New("camera: no frame available")

// Frame is one captured JPEG image. The buffer is owned by whoever called
// Capture and must be handed back with Release exactly once, on every path.
type Frame struct {
	Data []byte

	buf *bytes.Buffer
}

// Size returns the encoded frame length in bytes.
func (f *Frame) Size() int { return len(f.Data) }

// Driver is the capture collaborator. Exactly one frame per Capture; a
// failed capture yields no Frame at all, never an empty one. Drivers do not
// retry internally — retry policy belongs to the caller.
type Driver interface {
	Capture(ctx context.Context) (*Frame, error)
	Release(f *Frame)
	Close() error
}

// Config selects and configures a driver. See config.CameraConfig for the
// YAML-side documentation of each field.
type Config struct {
	Type        string
	Command     string
	Args        []string
	SnapshotURL string
	Timeout     time.Duration
}

// New returns the driver for cfg.Type. Construction validates everything
// that can fail early (command resolution, URL shape) so a misconfigured
// camera is fatal at startup rather than a silent failure every cycle.
func New(cfg Config) (Driver, error) {
	switch cfg.Type {
	case "still":
		return newStill(cfg)
	case "snapshot":
		return newSnapshot(cfg)
	default:
		return nil, fmt.Errorf("camera: unsupported type %q", cfg.Type)
	}
}

// framePool recycles frame buffers between captures, standing in for the
// sensor subsystem's frame-buffer return in requestFrame/releaseFrame
// designs.
var framePool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func getBuffer() *bytes.Buffer {
	buf := framePool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// newFrame validates buf as a JPEG frame and wraps it. On rejection the
// buffer goes straight back to the pool.
func newFrame(buf *bytes.Buffer) (*Frame, error) {
	data := buf.Bytes()
	if len(data) == 0 {
		framePool.Put(buf)
		return nil, fmt.Errorf("%w: empty capture", ErrNoFrame)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		framePool.Put(buf)
		return nil, fmt.Errorf("%w: output is not a JPEG frame", ErrNoFrame)
	}
	return &Frame{Data: data, buf: buf}, nil
}

// releaseFrame returns the frame's buffer to the pool. Releasing an already
// released frame is a no-op; the caller contract is still exactly-once.
func releaseFrame(f *Frame) {
	if f == nil || f.buf == nil {
		return
	}
	framePool.Put(f.buf)
	f.buf = nil
	f.Data = nil
}
