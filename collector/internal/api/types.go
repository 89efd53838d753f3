package api

// UploadImageResponse is the payload for POST /upload_image.
type UploadImageResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
}

// UploadResponse is the payload for POST /upload_gps and GET /healthz.
type UploadResponse struct {
	Status string `json:"status"`
}

// FixResponse is one entry in GET /fixes.
type FixResponse struct {
	ID         int64  `json:"id"`
	ReceivedAt string `json:"received_at"` // RFC3339
	Line       string `json:"line"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
