// Package shard implements the worker-shard command protocol: an
// ordered, fixed collection of simulation systems batched behind one
// message exchange per tick.
package shard

import "github.com/san-kum/spinsim/internal/physics"

// Controller owns the systems assigned to one shard. It is not safe
// for concurrent use; run it on its own goroutine via [Controller.Serve]
// and talk to it over the channel pair.
type Controller struct {
	systems []*physics.System
}

func NewController() *Controller {
	return &Controller{}
}

// Systems reports how many systems the shard owns.
func (c *Controller) Systems() int { return len(c.systems) }

// Initialize creates exactly one system per id, in the given order,
// each reset with its id and the shard's total count. Membership never
// changes afterwards.
func (c *Controller) Initialize(ids []int) {
	c.systems = make([]*physics.System, len(ids))
	for i, id := range ids {
		c.systems[i] = physics.NewSystem(id, len(ids))
	}
}

// Advance steps every owned system by dt, encodes their state into buf
// and returns the buffer together with the summed corrected energies.
// buf is reused when size-compatible and reallocated otherwise.
func (c *Controller) Advance(dt float64, buf StateBuffer) (StateBuffer, float64) {
	buf = c.ensure(buf)
	total := 0.0
	for i, sys := range c.systems {
		total += sys.Advance(dt)
		buf.encode(i, sys)
	}
	return buf, total
}

// Reset restores every owned system to its deterministic startup state
// and returns the encoded buffer together with the summed recomputed
// energy baselines.
func (c *Controller) Reset(buf StateBuffer) (StateBuffer, float64) {
	buf = c.ensure(buf)
	total := 0.0
	for i, sys := range c.systems {
		sys.Reset(sys.ID, len(c.systems))
		total += sys.InitialEnergy
		buf.encode(i, sys)
	}
	return buf, total
}

func (c *Controller) ensure(buf StateBuffer) StateBuffer {
	if len(buf) != Stride*len(c.systems) {
		return NewStateBuffer(len(c.systems))
	}
	return buf
}

// Serve processes requests strictly one at a time until the channel
// closes. Unknown command kinds are dropped without a response. A
// buffer attached to a request belongs to the shard from receipt until
// it is handed back in the reply.
func (c *Controller) Serve(requests <-chan Request, responses chan<- Response) {
	for req := range requests {
		switch req.Kind {
		case Initialize:
			c.Initialize(req.IDs)
			responses <- Response{}
		case Advance:
			buf, energy := c.Advance(req.Dt, req.Buffer)
			responses <- Response{Token: req.Token, Buffer: buf, Energy: energy}
		case Reset:
			buf, energy := c.Reset(req.Buffer)
			responses <- Response{Token: req.Token, Buffer: buf, Energy: energy}
		}
	}
}
