package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/fieldlink/fieldlink/collector/internal/store"
)

// defaultFixLimit caps GET /fixes when no limit parameter is given.
const defaultFixLimit = 100

// Handler is the HTTP handler for the collector's upload and read routes.
type Handler struct {
	store     *store.Store
	maxUpload int64
	mux       *http.ServeMux
}

// New creates a Handler wired to the given artifact store and registers all
// routes. maxUpload is the request body cap in bytes.
func New(st *store.Store, maxUpload int64) http.Handler {
	h := &Handler{store: st, maxUpload: maxUpload, mux: http.NewServeMux()}

	h.mux.HandleFunc("/upload_image", h.uploadImage)
	h.mux.HandleFunc("/upload_gps", h.uploadGPS)
	h.mux.HandleFunc("/fixes", h.fixes)
	h.mux.HandleFunc("/healthz", h.healthz)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// uploadImage handles POST /upload_image: one raw JPEG frame per request.
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		jsonErr(w, http.StatusRequestEntityTooLarge, "body too large or unreadable")
		return
	}
	if len(data) == 0 {
		jsonErr(w, http.StatusBadRequest, "empty body")
		return
	}

	name, err := h.store.SaveImage(data)
	if err != nil {
		slog.Error("api: save image failed", "err", err)
		jsonErr(w, http.StatusInternalServerError, "store image")
		return
	}

	slog.Info("api: image received",
		"size", humanize.IBytes(uint64(len(data))), "filename", name)
	jsonResp(w, http.StatusOK, UploadImageResponse{Status: "OK", Filename: name})
}

// uploadGPS handles POST /upload_gps: one GPS sentence per request.
func (h *Handler) uploadGPS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		jsonErr(w, http.StatusRequestEntityTooLarge, "body too large or unreadable")
		return
	}

	line := strings.TrimSpace(string(data))
	if line == "" {
		jsonErr(w, http.StatusBadRequest, "empty gps sentence")
		return
	}

	if err := h.store.AppendFix(line); err != nil {
		slog.Error("api: append fix failed", "err", err)
		jsonErr(w, http.StatusInternalServerError, "store fix")
		return
	}

	slog.Info("api: gps fix received", "line", line)
	jsonResp(w, http.StatusOK, UploadResponse{Status: "OK"})
}

// fixes handles GET /fixes?limit=n: recent fixes, newest first.
func (h *Handler) fixes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultFixLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonErr(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	fixes, err := h.store.RecentFixes(limit)
	if err != nil {
		slog.Error("api: query fixes failed", "err", err)
		jsonErr(w, http.StatusInternalServerError, "query fixes")
		return
	}

	out := make([]FixResponse, 0, len(fixes))
	for _, f := range fixes {
		out = append(out, FixResponse{
			ID:         f.ID,
			ReceivedAt: f.ReceivedAt.Format(time.RFC3339Nano),
			Line:       f.Line,
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// healthz handles GET /healthz: liveness only.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, UploadResponse{Status: "OK"})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
