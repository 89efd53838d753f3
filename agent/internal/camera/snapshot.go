package camera

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxSnapshotBytes caps one snapshot download. SVGA-quality JPEG frames are
// well under 1 MiB; anything larger is a misbehaving camera, not a frame.
const maxSnapshotBytes = 8 << 20

// snapshotDriver fetches frames from an IP camera's snapshot endpoint: one
// HTTP GET returns one JPEG image.
type snapshotDriver struct {
	url    string
	client *http.Client
}

func newSnapshot(cfg Config) (*snapshotDriver, error) {
	parsed, err := url.Parse(cfg.SnapshotURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("camera: snapshot_url %q is not an absolute URL", cfg.SnapshotURL)
	}
	return &snapshotDriver{
		url: cfg.SnapshotURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

func (d *snapshotDriver) Capture(ctx context.Context) (*Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("camera: build snapshot request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot fetch: %v", ErrNoFrame, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: snapshot status %d", ErrNoFrame, resp.StatusCode)
	}

	buf := getBuffer()
	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxSnapshotBytes)); err != nil {
		framePool.Put(buf)
		return nil, fmt.Errorf("%w: snapshot body: %v", ErrNoFrame, err)
	}
	return newFrame(buf)
}

func (d *snapshotDriver) Release(f *Frame) { releaseFrame(f) }

func (d *snapshotDriver) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
