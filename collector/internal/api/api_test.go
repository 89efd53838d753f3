package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldlink/fieldlink/collector/internal/store"
)

var fakeJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func testServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	imageDir := filepath.Join(dir, "images")

	st, err := store.Open(imageDir, filepath.Join(dir, "fixes.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(New(st, 1<<20))
	t.Cleanup(srv.Close)
	return srv, imageDir
}

func TestUploadImage(t *testing.T) {
	srv, imageDir := testServer(t)

	resp, err := http.Post(srv.URL+"/upload_image", "image/jpeg", bytes.NewReader(fakeJPEG))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var body UploadImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "OK" || body.Filename == "" {
		t.Fatalf("response: got %+v", body)
	}

	stored, err := os.ReadFile(filepath.Join(imageDir, body.Filename))
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	if !bytes.Equal(stored, fakeJPEG) {
		t.Error("stored frame differs from upload")
	}
}

func TestUploadImage_EmptyBody(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/upload_image", "image/jpeg", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status for empty body: got %d, want 400", resp.StatusCode)
	}
}

func TestUploadImage_MethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/upload_image")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status for GET: got %d, want 405", resp.StatusCode)
	}
}

func TestUploadGPS_RoundTrip(t *testing.T) {
	srv, _ := testServer(t)

	sentences := []string{"$GPGGA,first", "$GPRMC,second"}
	for _, s := range sentences {
		resp, err := http.Post(srv.URL+"/upload_gps", "text/plain", bytes.NewReader([]byte(s+"\r\n")))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: got %d, want 200", resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/fixes?limit=10")
	if err != nil {
		t.Fatalf("GET /fixes: %v", err)
	}
	defer resp.Body.Close()

	var fixes []FixResponse
	if err := json.NewDecoder(resp.Body).Decode(&fixes); err != nil {
		t.Fatalf("decode fixes: %v", err)
	}
	if len(fixes) != 2 {
		t.Fatalf("fixes: got %d, want 2", len(fixes))
	}
	// Newest first, and the trailing CRLF trimmed on ingest.
	if fixes[0].Line != "$GPRMC,second" {
		t.Errorf("fixes[0]: got %q", fixes[0].Line)
	}
	if fixes[1].Line != "$GPGGA,first" {
		t.Errorf("fixes[1]: got %q", fixes[1].Line)
	}
}

func TestUploadGPS_EmptyAfterTrim(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/upload_gps", "text/plain", bytes.NewReader([]byte("  \r\n")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status for whitespace body: got %d, want 400", resp.StatusCode)
	}
}

func TestFixes_BadLimit(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/fixes?limit=zero")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status for bad limit: got %d, want 400", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}
