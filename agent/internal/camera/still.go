package camera

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// stillDriver shells out to a capture program (libcamera-still, raspistill,
// fswebcam) that writes exactly one JPEG frame to stdout.
type stillDriver struct {
	path    string
	args    []string
	timeout time.Duration
}

func newStill(cfg Config) (*stillDriver, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("camera: still driver requires a command")
	}
	path, err := exec.LookPath(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("camera: resolve capture command: %w", err)
	}
	return &stillDriver{
		path:    path,
		args:    cfg.Args,
		timeout: cfg.Timeout,
	}, nil
}

func (d *stillDriver) Capture(ctx context.Context) (*Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	buf := getBuffer()
	cmd := exec.CommandContext(ctx, d.path, d.args...)
	cmd.Stdout = buf

	if err := cmd.Run(); err != nil {
		framePool.Put(buf)
		return nil, fmt.Errorf("%w: %s: %v", ErrNoFrame, d.path, err)
	}
	return newFrame(buf)
}

func (d *stillDriver) Release(f *Frame) { releaseFrame(f) }

func (d *stillDriver) Close() error { return nil }
