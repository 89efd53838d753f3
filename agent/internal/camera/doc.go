// Package camera captures single JPEG frames from the attached sensor.
//
// Driver.Capture returns exactly one owned Frame or ErrNoFrame — never an
// empty frame, and never a retry loop; a failed capture is reported and the
// caller decides (the scheduler just waits for the next cycle). The frame's
// buffer must be handed back with Release exactly once, success or not,
// which returns it to the internal pool.
//
// Two drivers exist behind New: "still" spawns a capture command that
// writes a JPEG to stdout, "snapshot" GETs an IP camera's snapshot URL.
// Both validate their configuration at construction so camera misconfig is
// fatal at startup, before the uplink loop is entered.
package camera
