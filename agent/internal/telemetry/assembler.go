package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
)

// Line is one validated telemetry sentence: delimiter-stripped, whitespace
// trimmed, longer than the noise threshold. Lines are consumed by the next
// delivery and never retained.
type Line string

// Source is the serial collaborator the assembler drains. ReadAvailable
// returns bytes already buffered by the receiver without waiting for more;
// (0, nil) means nothing is available right now.
type Source interface {
	ReadAvailable(p []byte) (int, error)
}

// maxPending bounds the partial-line buffer. A receiver that never emits a
// delimiter is wiring noise; anything this long is discarded wholesale.
const maxPending = 4096

// Assembler frames the receiver's byte stream into Lines. It owns only the
// trailing partial line between polls; completed lines are handed to the
// caller and forgotten.
type Assembler struct {
	src     Source
	minLen  int
	pending []byte
}

// NewAssembler creates an Assembler over src. Lines with trimmed length
// <= minLen are dropped as noise.
func NewAssembler(src Source, minLen int) *Assembler {
	return &Assembler{src: src, minLen: minLen}
}

// Poll drains whatever the source has buffered and returns the complete,
// valid lines found, in arrival order. It never blocks waiting for more
// bytes: if no delimiter has arrived yet, it returns nil and keeps the
// partial line for the next poll. Read errors and malformed input are
// absorbed; the uplink loop must not stall on a noisy receiver.
func (a *Assembler) Poll() []Line {
	// Drain is bounded per poll so a receiver that streams continuously
	// cannot hold the cycle open.
	var chunk [512]byte
	for drained := 0; drained < maxPending; {
		n, err := a.src.ReadAvailable(chunk[:])
		if n > 0 {
			a.pending = append(a.pending, chunk[:n]...)
			drained += n
		}
		if err != nil {
			slog.Debug("telemetry: source read error", "err", err)
			break
		}
		if n == 0 {
			break
		}
	}

	var lines []Line
	rest := a.pending
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		trimmed := strings.TrimSpace(string(rest[:i]))
		rest = rest[i+1:]

		if len(trimmed) > a.minLen {
			lines = append(lines, Line(trimmed))
		} else if trimmed != "" {
			slog.Debug("telemetry: dropped short line", "len", len(trimmed))
		}
	}

	if len(rest) > maxPending {
		slog.Debug("telemetry: discarding oversized partial line", "len", len(rest))
		rest = nil
	}
	a.pending = append(a.pending[:0], rest...)

	return lines
}
