package ensemble

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/shard"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name          string
		total, shards int
		wantErr       error
	}{
		{"zero systems", 0, 1, ErrNoSystems},
		{"negative systems", -3, 1, ErrNoSystems},
		{"zero shards", 8, 0, ErrNoShards},
		{"more shards than systems", 2, 4, ErrTooManyShards},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.total, tt.shards)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		total, shards int
		wantSizes     []int
	}{
		{10, 3, []int{4, 3, 3}},
		{8, 4, []int{2, 2, 2, 2}},
		{5, 5, []int{1, 1, 1, 1, 1}},
		{7, 2, []int{4, 3}},
	}

	for _, tt := range tests {
		parts := partition(tt.total, tt.shards)
		if len(parts) != tt.shards {
			t.Fatalf("%d/%d: expected %d parts, got %d", tt.total, tt.shards, tt.shards, len(parts))
		}
		next := 0
		for i, ids := range parts {
			if len(ids) != tt.wantSizes[i] {
				t.Errorf("%d/%d part %d: expected size %d, got %d",
					tt.total, tt.shards, i, tt.wantSizes[i], len(ids))
			}
			for _, id := range ids {
				if id != next {
					t.Fatalf("%d/%d: expected contiguous id %d, got %d", tt.total, tt.shards, next, id)
				}
				next++
			}
		}
	}
}

func TestResetAggregatesBaselines(t *testing.T) {
	e, err := New(10, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	got := e.Reset()

	// Each shard resets its systems against its own size.
	want := 0.0
	for _, ids := range partition(10, 3) {
		for _, id := range ids {
			want += physics.NewSystem(id, len(ids)).InitialEnergy
		}
	}
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSnapshotGlobalOrder(t *testing.T) {
	e, err := New(10, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.Reset()
	snap := e.Snapshot(nil)

	if len(snap) != shard.Stride*10 {
		t.Fatalf("expected %d floats, got %d", shard.Stride*10, len(snap))
	}

	i := 0
	for _, ids := range partition(10, 3) {
		for _, id := range ids {
			want := physics.NewSystem(id, len(ids))
			if snap[i*shard.Stride] != float32(want.Ball.X) {
				t.Errorf("system %d: expected x %v, got %v",
					id, float32(want.Ball.X), snap[i*shard.Stride])
			}
			if snap[i*shard.Stride+1] != float32(want.Ball.Y) {
				t.Errorf("system %d: expected y %v, got %v",
					id, float32(want.Ball.Y), snap[i*shard.Stride+1])
			}
			i++
		}
	}
}

func TestStepMatchesUnshardedRun(t *testing.T) {
	e, err := New(6, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.Reset()

	reference := make([]*physics.System, 0, 6)
	for _, ids := range partition(6, 2) {
		for _, id := range ids {
			reference = append(reference, physics.NewSystem(id, len(ids)))
		}
	}

	for tick := 0; tick < 120; tick++ {
		got := e.Step(1.0 / 60)
		want := 0.0
		for _, sys := range reference {
			want += sys.Advance(1.0 / 60)
		}
		if math.Abs(got-want) > 1e-9*math.Abs(want) {
			t.Fatalf("tick %d: expected aggregate %v, got %v", tick, want, got)
		}
	}

	snap := e.Snapshot(nil)
	for i, sys := range reference {
		if snap[i*shard.Stride] != float32(sys.Ball.X) {
			t.Errorf("system %d: expected x %v, got %v",
				i, float32(sys.Ball.X), snap[i*shard.Stride])
		}
	}
}

func TestStepEnergyStaysNearBaseline(t *testing.T) {
	e, err := New(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	baseline := e.Reset()
	for tick := 0; tick < 300; tick++ {
		total := e.Step(1.0 / 60)
		drift := math.Abs(total-baseline) / baseline
		if drift > 0.02 {
			t.Fatalf("tick %d: aggregate drift %.4f%%", tick, drift*100)
		}
	}
}

func TestResetAfterStepping(t *testing.T) {
	e, err := New(8, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	first := e.Reset()
	initial := e.Snapshot(nil)

	for tick := 0; tick < 30; tick++ {
		e.Step(1.0 / 60)
	}

	again := e.Reset()
	if first != again {
		t.Errorf("expected baseline %v after reset, got %v", first, again)
	}

	snap := e.Snapshot(nil)
	for i := range initial {
		if snap[i] != initial[i] {
			t.Fatalf("index %d: expected %v, got %v", i, initial[i], snap[i])
		}
	}
}

func TestShardEnergies(t *testing.T) {
	e, err := New(9, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	total := e.Reset()
	perShard := e.ShardEnergies(nil)

	if len(perShard) != 3 {
		t.Fatalf("expected 3 shard energies, got %d", len(perShard))
	}
	sum := 0.0
	for _, v := range perShard {
		sum += v
	}
	if math.Abs(sum-total) > 1e-9 {
		t.Errorf("expected shard energies summing to %v, got %v", total, sum)
	}
}
