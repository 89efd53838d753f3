package uplink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, imageURL, telemetryURL string) *Client {
	t.Helper()
	c, err := New(Config{
		ImageURL:          imageURL,
		TelemetryURL:      telemetryURL,
		Timeout:           2 * time.Second,
		AssociateAttempts: 3,
		AssociateInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestDeliver_SetsContentTypeAndBody(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL+"/upload_image", srv.URL+"/upload_gps")

	out := c.Deliver(context.Background(), []byte("$GPGGA,fix"), c.Telemetry())
	if !out.Delivered() {
		t.Fatalf("Deliver: %v", out.Err)
	}
	if out.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", out.StatusCode)
	}
	if gotContentType != "text/plain" {
		t.Errorf("content-type: got %q, want text/plain", gotContentType)
	}
	if string(gotBody) != "$GPGGA,fix" {
		t.Errorf("body: got %q", gotBody)
	}
}

func TestDeliver_NonOKStatusIsStillSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "full disk", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	out := c.Deliver(context.Background(), []byte("payload"), c.Image())

	if !out.Delivered() {
		t.Fatalf("Deliver with 500: expected delivered outcome, got err %v", out.Err)
	}
	if out.StatusCode != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", out.StatusCode)
	}
}

func TestDeliver_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // refuse connections from here on

	c := testClient(t, url, url)
	out := c.Deliver(context.Background(), []byte("payload"), c.Telemetry())

	if out.Delivered() {
		t.Fatal("Deliver to closed server: expected transport failure")
	}
	if out.Err == nil {
		t.Fatal("transport failure outcome must carry the error")
	}
}

func TestChannels_ContentKinds(t *testing.T) {
	c := testClient(t, "http://collector/upload_image", "http://collector/upload_gps")

	if got := c.Image().ContentType; got != "image/jpeg" {
		t.Errorf("image content type: got %q", got)
	}
	if got := c.Telemetry().ContentType; got != "text/plain" {
		t.Errorf("telemetry content type: got %q", got)
	}
}

func TestAssociate_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Even an error status proves reachability.
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	if err := c.Associate(context.Background()); err != nil {
		t.Fatalf("Associate: %v", err)
	}
}

func TestAssociate_ExhaustsAttempts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := testClient(t, url, url)
	if err := c.Associate(context.Background()); err == nil {
		t.Fatal("Associate against closed server: expected error, got nil")
	}
}

func TestAssociate_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(t, url, url)
	if err := c.Associate(ctx); err == nil {
		t.Fatal("Associate with cancelled context: expected error, got nil")
	}
}

func TestNew_Validation(t *testing.T) {
	base := Config{
		ImageURL:          "http://collector/upload_image",
		TelemetryURL:      "http://collector/upload_gps",
		Timeout:           time.Second,
		AssociateAttempts: 1,
		AssociateInterval: time.Millisecond,
	}

	bad := base
	bad.ImageURL = "upload_image"
	if _, err := New(bad); err == nil {
		t.Error("relative image URL: expected error")
	}

	bad = base
	bad.Timeout = 0
	if _, err := New(bad); err == nil {
		t.Error("zero timeout: expected error")
	}

	bad = base
	bad.AssociateAttempts = 0
	if _, err := New(bad); err == nil {
		t.Error("zero attempts: expected error")
	}
}
