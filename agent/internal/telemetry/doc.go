// Package telemetry frames the GPS receiver's raw byte stream into discrete
// sentences ready for uplink.
//
// Assembler.Poll() drains whatever bytes the serial collaborator has
// buffered, splits them on newlines, trims whitespace and yields only lines
// longer than the configured noise threshold, in arrival order, since
// downstream consumers treat arrival order as fix order. Poll never blocks:
// a missing delimiter means zero lines this call, with the partial tail kept
// for the next one. Short or garbled lines are silently dropped; the loop
// must not stall or fail on receiver noise.
//
// The serial subpackage adapts a real UART port to the Source interface.
package telemetry
