// Package store persists artifacts received from field agents. Images land
// as individual timestamped JPEG files in a flat directory; GPS sentences
// go into a SQLite fix log (WAL mode) so the read API can page through them
// newest-first. The time source is injectable for deterministic tests.
package store
