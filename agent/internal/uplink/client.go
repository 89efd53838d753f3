package uplink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Channel is one uplink target: where the payload goes and what it is.
// Channels are built once from config and never change afterwards.
type Channel struct {
	URL         string
	ContentType string
}

// Outcome classifies one delivery attempt. Err != nil means the transport
// itself failed (DNS, refused connection, timeout); otherwise StatusCode
// holds whatever the collector answered. Outcomes are observational: the
// scheduler logs them and moves on, it never retries or blocks on them.
type Outcome struct {
	StatusCode int
	Err        error
}

// Delivered reports whether the payload reached the collector at the
// transport level. A non-2xx status still counts as delivered — the bytes
// arrived and the collector answered.
func (o Outcome) Delivered() bool { return o.Err == nil }

// Config holds the immutable endpoint pair and delivery behaviour.
type Config struct {
	ImageURL     string
	TelemetryURL string

	// Timeout bounds one delivery attempt end to end.
	Timeout time.Duration

	// AssociateAttempts and AssociateInterval bound the startup
	// reachability probe. Exhausting the attempts is fatal to the process.
	AssociateAttempts int
	AssociateInterval time.Duration
}

// Client performs best-effort, fire-and-forget deliveries to the collector.
// Each delivery opens its own connection: cycles are seconds apart, so a
// kept-alive connection would only be a stale one.
type Client struct {
	http      *http.Client
	image     Channel
	telemetry Channel
	attempts  int
	interval  time.Duration
}

// New validates the endpoint pair and builds the client.
func New(cfg Config) (*Client, error) {
	for _, u := range []string{cfg.ImageURL, cfg.TelemetryURL} {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("uplink: %q is not an absolute URL", u)
		}
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("uplink: timeout must be positive")
	}
	if cfg.AssociateAttempts <= 0 || cfg.AssociateInterval <= 0 {
		return nil, fmt.Errorf("uplink: association bounds must be positive")
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
		image:     Channel{URL: cfg.ImageURL, ContentType: "image/jpeg"},
		telemetry: Channel{URL: cfg.TelemetryURL, ContentType: "text/plain"},
		attempts:  cfg.AssociateAttempts,
		interval:  cfg.AssociateInterval,
	}, nil
}

// Image returns the JPEG frame channel.
func (c *Client) Image() Channel { return c.image }

// Telemetry returns the GPS sentence channel.
func (c *Client) Telemetry() Channel { return c.telemetry }

// Deliver POSTs payload to the channel and classifies the result. It never
// returns a Go error: every attempt produces exactly one Outcome and the
// caller chooses what, if anything, to do with it.
func (c *Client) Deliver(ctx context.Context, payload []byte, ch Channel) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ch.URL, bytes.NewReader(payload))
	if err != nil {
		return Outcome{Err: fmt.Errorf("uplink: build request: %w", err)}
	}
	req.Header.Set("Content-Type", ch.ContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Err: fmt.Errorf("uplink: post %s: %w", ch.URL, err)}
	}
	defer resp.Body.Close()

	// The collector's response body is not part of the protocol; drain it
	// so the connection can close cleanly.
	_, _ = io.Copy(io.Discard, resp.Body)

	return Outcome{StatusCode: resp.StatusCode}
}

// Associate probes the collector until it answers, up to the configured
// attempt bound. Any HTTP response — even an error status — proves the
// network path is up, which is all startup needs to know. On exhaustion
// the agent must not enter the uplink loop; the supervisor restarts it.
func (c *Client) Associate(ctx context.Context) error {
	for attempt := 1; attempt <= c.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.telemetry.URL, nil)
		if err != nil {
			return fmt.Errorf("uplink: build probe request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err == nil {
			resp.Body.Close()
			slog.Info("uplink: collector reachable", "attempt", attempt)
			return nil
		}
		slog.Debug("uplink: association probe failed",
			"attempt", attempt, "of", c.attempts, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.interval):
		}
	}
	return fmt.Errorf("uplink: collector unreachable after %d attempts", c.attempts)
}
