// Package api is the collector's HTTP surface. Upload routes mirror the
// agent's two uplink channels: POST /upload_image takes one raw JPEG frame
// per request, POST /upload_gps one plain-text GPS sentence. Both are
// size-capped, reject empty bodies and answer small JSON status payloads.
// GET /fixes pages the stored fix log newest-first; GET /healthz is
// liveness only.
package api
