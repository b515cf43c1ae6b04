package shard

// Kind identifies a shard command.
type Kind int

const (
	Initialize Kind = iota
	Advance
	Reset
)

// Request is one command sent to a shard. Buffer ownership moves with
// the message: once sent, the sender must not touch the buffer again
// until it comes back in a Response.
type Request struct {
	Kind   Kind
	IDs    []int       // Initialize: ordered system ids, one system each
	Dt     float64     // Advance: time delta to integrate
	Token  uint64      // Advance/Reset: echoed back unchanged
	Buffer StateBuffer // optional reusable buffer from a previous reply
}

// Response carries the echoed token, the filled state buffer and the
// aggregate corrected energy of the shard's systems. Initialize is
// acknowledged with a zero Response.
type Response struct {
	Token  uint64
	Buffer StateBuffer
	Energy float64
}
