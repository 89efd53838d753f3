// Package scheduler drives the periodic uplink cycle: telemetry phase
// (drain the receiver, deliver each sentence FIFO), imaging phase (capture
// one frame, deliver it, release the buffer), idle phase (fixed interval,
// counted after the cycle finishes).
//
// The loop is a single goroutine and cycles never overlap, which bounds
// the system to one in-flight delivery by construction. Every runtime
// failure — malformed telemetry, capture fault, transport loss — is logged
// and absorbed; nothing that happens inside a cycle can terminate the loop
// or change the schedule. No retries, no backoff, no carried state.
package scheduler
