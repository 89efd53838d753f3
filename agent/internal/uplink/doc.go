// Package uplink delivers captured artifacts to the remote collector.
//
// Client.Deliver POSTs one payload to one Channel (image/jpeg frames or
// text/plain GPS sentences) over a dedicated, keep-alive-free connection,
// bounded by an explicit timeout, and returns an Outcome value instead of
// an error: Sent-with-status or transport failure. Delivery is deliberately
// best-effort — there is no queue, no retry, no persisted backlog, because
// the device has nowhere to store one. The scheduler logs Outcomes and
// proceeds regardless.
//
// Client.Associate is the startup reachability probe: a bounded number of
// fixed-interval HEAD requests standing in for the radio association the
// device performs before it may enter the uplink loop.
package uplink
