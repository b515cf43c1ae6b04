// Package ensemble coordinates a fixed set of shard goroutines, each
// owning a contiguous, non-overlapping slice of the system ids.
package ensemble

import (
	"errors"

	"github.com/san-kum/spinsim/internal/shard"
)

var (
	ErrNoSystems     = errors.New("ensemble: system count must be positive")
	ErrNoShards      = errors.New("ensemble: shard count must be positive")
	ErrTooManyShards = errors.New("ensemble: more shards than systems")
)

// Ensemble is the single owner of every shard's channel pair and
// reusable state buffer. A buffer handle is nil while ownership is on
// the shard's side of the exchange. Not safe for concurrent use.
type Ensemble struct {
	shards []*shardHandle
	total  int
	tick   uint64
}

type shardHandle struct {
	requests  chan shard.Request
	responses chan shard.Response
	ids       []int
	buffer    shard.StateBuffer
	energy    float64
}

// New partitions total system ids contiguously across shardCount
// shards, starts one serving goroutine per shard and initializes every
// shard's systems.
func New(total, shardCount int) (*Ensemble, error) {
	if total <= 0 {
		return nil, ErrNoSystems
	}
	if shardCount <= 0 {
		return nil, ErrNoShards
	}
	if shardCount > total {
		return nil, ErrTooManyShards
	}

	e := &Ensemble{total: total}
	for _, ids := range partition(total, shardCount) {
		h := &shardHandle{
			requests:  make(chan shard.Request),
			responses: make(chan shard.Response),
			ids:       ids,
		}
		go shard.NewController().Serve(h.requests, h.responses)
		e.shards = append(e.shards, h)
	}

	for _, h := range e.shards {
		h.requests <- shard.Request{Kind: shard.Initialize, IDs: h.ids}
	}
	for _, h := range e.shards {
		<-h.responses
	}
	return e, nil
}

// Systems reports the total number of simulated systems.
func (e *Ensemble) Systems() int { return e.total }

// Shards reports the number of worker shards.
func (e *Ensemble) Shards() int { return len(e.shards) }

// Step advances every shard by dt in parallel and returns the summed
// corrected energy across all systems.
func (e *Ensemble) Step(dt float64) float64 {
	return e.exchange(shard.Advance, dt)
}

// Reset restores every system to its deterministic startup state and
// returns the summed recomputed energy baselines.
func (e *Ensemble) Reset() float64 {
	return e.exchange(shard.Reset, 0)
}

func (e *Ensemble) exchange(kind shard.Kind, dt float64) float64 {
	e.tick++
	for _, h := range e.shards {
		buf := h.buffer
		h.buffer = nil // ownership moves with the request
		h.requests <- shard.Request{Kind: kind, Dt: dt, Token: e.tick, Buffer: buf}
	}

	total := 0.0
	for _, h := range e.shards {
		resp := <-h.responses
		h.buffer = resp.Buffer
		h.energy = resp.Energy
		total += resp.Energy
	}
	return total
}

// Snapshot copies the latest stride-4 tuples for all systems, in
// global id order, into dst and returns it; dst is reallocated when it
// is not exactly the right size. Valid after the first Step or Reset.
func (e *Ensemble) Snapshot(dst []float32) []float32 {
	if len(dst) != shard.Stride*e.total {
		dst = make([]float32, shard.Stride*e.total)
	}
	o := 0
	for _, h := range e.shards {
		o += copy(dst[o:], h.buffer)
	}
	return dst
}

// ShardEnergies copies the per-shard aggregate energies from the most
// recent exchange into dst and returns it.
func (e *Ensemble) ShardEnergies(dst []float64) []float64 {
	if len(dst) != len(e.shards) {
		dst = make([]float64, len(e.shards))
	}
	for i, h := range e.shards {
		dst[i] = h.energy
	}
	return dst
}

// Close shuts every shard goroutine down. The ensemble must not be
// used afterwards.
func (e *Ensemble) Close() {
	for _, h := range e.shards {
		close(h.requests)
	}
}

// partition splits ids 0..total-1 into contiguous chunks, spreading the
// remainder over the leading shards.
func partition(total, shards int) [][]int {
	out := make([][]int, 0, shards)
	base := total / shards
	extra := total % shards
	next := 0
	for i := 0; i < shards; i++ {
		n := base
		if i < extra {
			n++
		}
		ids := make([]int, n)
		for j := range ids {
			ids[j] = next
			next++
		}
		out = append(out, ids)
	}
	return out
}
