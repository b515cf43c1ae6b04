package shard

import "github.com/san-kum/spinsim/internal/physics"

// Stride is the number of float32 values encoded per system:
// ballX, ballY, ballAngle, containerAngle.
const Stride = 4

// StateBuffer is the flat 32-bit float encoding of every system's
// externally visible state, stride 4 per system, in shard order.
type StateBuffer []float32

// NewStateBuffer allocates a buffer sized for n systems.
func NewStateBuffer(n int) StateBuffer {
	return make(StateBuffer, Stride*n)
}

// ByteLen reports the encoded size in bytes.
func (b StateBuffer) ByteLen() int { return 4 * len(b) }

// Systems reports how many stride-4 tuples the buffer holds.
func (b StateBuffer) Systems() int { return len(b) / Stride }

// At decodes the tuple at shard index i.
func (b StateBuffer) At(i int) (ballX, ballY, ballAngle, containerAngle float32) {
	o := i * Stride
	return b[o], b[o+1], b[o+2], b[o+3]
}

func (b StateBuffer) encode(i int, s *physics.System) {
	o := i * Stride
	b[o] = float32(s.Ball.X)
	b[o+1] = float32(s.Ball.Y)
	b[o+2] = float32(s.Ball.Angle)
	b[o+3] = float32(s.Container.Angle)
}
