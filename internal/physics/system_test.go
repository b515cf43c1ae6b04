package physics

import (
	"math"
	"testing"
)

func TestResetStartingState(t *testing.T) {
	tests := []struct {
		id, total int
		wantX     float64
	}{
		{0, 64, 0.99},
		{32, 64, 1.0},
		{63, 64, 1.0096875},
	}

	for _, tt := range tests {
		s := NewSystem(tt.id, tt.total)

		if math.Abs(s.Ball.X-tt.wantX) > 1e-12 {
			t.Errorf("id %d: expected x %v, got %v", tt.id, tt.wantX, s.Ball.X)
		}
		if s.Ball.Y != -220 {
			t.Errorf("id %d: expected y -220, got %v", tt.id, s.Ball.Y)
		}
		if s.Ball.VX != 0 || s.Ball.VY != 0 || s.Ball.AngularVel != 0 {
			t.Errorf("id %d: expected ball at rest", tt.id)
		}
		if s.Ball.Angle != 0 || s.Container.Angle != 0 || s.Container.AngularVel != 0 {
			t.Errorf("id %d: expected zero angles and container at rest", tt.id)
		}
	}
}

func TestResetEnergyBaseline(t *testing.T) {
	s := NewSystem(7, 64)

	total, potential := s.Energy()
	if total != s.InitialEnergy {
		t.Errorf("expected baseline %v, got total %v", s.InitialEnergy, total)
	}

	// At rest the whole budget is potential: -m*g*y = 10*981*220.
	want := 2158200.0
	if total != want {
		t.Errorf("expected energy %v, got %v", want, total)
	}
	if potential != want {
		t.Errorf("expected potential %v, got %v", want, potential)
	}
}

func TestEnergyComponents(t *testing.T) {
	s := NewSystem(0, 1)
	s.Ball.VX = 3
	s.Ball.VY = 4
	s.Ball.AngularVel = 2
	s.Container.AngularVel = 0.1

	total, potential := s.Energy()

	wantPE := -BallMass * Gravity * s.Ball.Y
	want := 0.5*BallMass*25 + 0.5*BallInertia*4 + 0.5*ContainerInertia*0.01 + wantPE

	if math.Abs(potential-wantPE) > 1e-9 {
		t.Errorf("expected potential %v, got %v", wantPE, potential)
	}
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("expected total %v, got %v", want, total)
	}
}

func TestAdvanceFallsUnderGravity(t *testing.T) {
	s := NewSystem(0, 64)
	s.Advance(1.0 / 60)

	if s.Ball.VY <= 0 {
		t.Errorf("expected downward (positive y) velocity, got %v", s.Ball.VY)
	}
	if s.Ball.Y <= -220 {
		t.Errorf("expected ball to move off its start, got y %v", s.Ball.Y)
	}
	if s.Ball.VX != 0 {
		t.Errorf("expected no horizontal acceleration in free fall, got vx %v", s.Ball.VX)
	}
}

func TestAdvanceReturnsCorrectedTotal(t *testing.T) {
	s := NewSystem(3, 64)

	for i := 0; i < 10; i++ {
		ret := s.Advance(1.0 / 60)
		total, _ := s.Energy()
		if math.Abs(ret-total) > 1e-6*math.Abs(total) {
			t.Fatalf("step %d: returned %v, recomputed %v", i, ret, total)
		}
	}
}

func TestEnergyNonDivergence(t *testing.T) {
	s := NewSystem(0, 64)
	baseline := s.InitialEnergy

	for i := 0; i < 3000; i++ {
		s.Advance(1.0 / 60)
		total, _ := s.Energy()
		drift := math.Abs(total-baseline) / baseline
		if drift > 0.02 {
			t.Fatalf("step %d: energy drifted %.4f%% from baseline", i, drift*100)
		}
	}
}

func TestNoPenetration(t *testing.T) {
	s := NewSystem(5, 64)
	maxDist := ContainerRadius - BallRadius

	for i := 0; i < 1200; i++ {
		s.Advance(1.0 / 60)
		dist := math.Hypot(s.Ball.X, s.Ball.Y)
		if dist > maxDist+1e-6 {
			t.Fatalf("step %d: ball outside wall, dist %v > %v", i, dist, maxDist)
		}
	}
}

func TestCollideReflectsAndCouples(t *testing.T) {
	s := NewSystem(0, 1)
	s.Ball.X = 0
	s.Ball.Y = ContainerRadius - BallRadius
	s.Ball.VX = 50
	s.Ball.VY = 100

	keBefore := kinetic(s)
	s.collide()

	if math.Abs(s.Ball.VY+100) > 1e-9 {
		t.Errorf("expected normal velocity reflected to -100, got %v", s.Ball.VY)
	}
	if s.Ball.VX >= 50 || s.Ball.VX <= 0 {
		t.Errorf("expected tangential speed reduced by grip, got vx %v", s.Ball.VX)
	}
	if s.Ball.AngularVel == 0 {
		t.Error("expected ball spin from tangential impulse")
	}
	if s.Container.AngularVel == 0 {
		t.Error("expected container spin from tangential reaction")
	}
	if s.Ball.AngularVel*s.Container.AngularVel >= 0 {
		t.Errorf("expected opposite spins, got ball %v container %v",
			s.Ball.AngularVel, s.Container.AngularVel)
	}

	keAfter := kinetic(s)
	if math.Abs(keAfter-keBefore) > 1e-6*keBefore {
		t.Errorf("elastic contact changed kinetic energy: %v -> %v", keBefore, keAfter)
	}
}

func TestCollideResolvesPenetration(t *testing.T) {
	s := NewSystem(0, 1)
	s.Ball.X = 0
	s.Ball.Y = ContainerRadius - BallRadius + 5
	s.Ball.VY = 10

	s.collide()

	dist := math.Hypot(s.Ball.X, s.Ball.Y)
	if math.Abs(dist-(ContainerRadius-BallRadius)) > 1e-9 {
		t.Errorf("expected ball pushed back to wall, dist %v", dist)
	}
}

func TestCollideIgnoresSeparatingContact(t *testing.T) {
	s := NewSystem(0, 1)
	s.Ball.X = 0
	s.Ball.Y = ContainerRadius - BallRadius
	s.Ball.VX = 20
	s.Ball.VY = -50 // moving back toward the center

	s.collide()

	if s.Ball.VX != 20 || s.Ball.VY != -50 {
		t.Errorf("expected velocities unchanged, got (%v, %v)", s.Ball.VX, s.Ball.VY)
	}
	if s.Container.AngularVel != 0 {
		t.Errorf("expected no container reaction, got %v", s.Container.AngularVel)
	}
}

func TestCollideDegenerateCenter(t *testing.T) {
	s := NewSystem(0, 1)
	// Shrink the container to the ball's radius so the center sits
	// exactly on the contact threshold.
	s.Container.Radius = s.Ball.Radius
	s.Ball.X = 0
	s.Ball.Y = 0
	s.Ball.VX = 5
	s.Ball.VY = -3

	s.collide()

	if s.Ball.VX != 5 || s.Ball.VY != -3 {
		t.Errorf("expected velocities untouched at degenerate contact, got (%v, %v)",
			s.Ball.VX, s.Ball.VY)
	}
	if math.IsNaN(s.Ball.X) || math.IsNaN(s.Ball.Y) {
		t.Error("degenerate contact produced NaN position")
	}
}

func TestCorrectEnergyClampsAtOnePercent(t *testing.T) {
	s := NewSystem(0, 64)
	s.Ball.Y = -100  // below the start, so some kinetic budget remains
	s.Ball.VY = 2000 // far above that budget

	_, potential := s.Energy()
	kinetic := kinetic(s)

	got := s.correctEnergy()

	if math.Abs(s.Ball.VY-2000*0.99) > 1e-9 {
		t.Errorf("expected velocity scaled by 0.99, got %v", s.Ball.VY)
	}
	want := potential + kinetic*0.99*0.99
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected corrected total %v, got %v", want, got)
	}
}

func TestCorrectEnergySkipsNegligibleBaseline(t *testing.T) {
	s := NewSystem(0, 64)
	s.InitialEnergy = 0
	s.Ball.VY = 123

	total, _ := s.Energy()
	got := s.correctEnergy()

	if got != total {
		t.Errorf("expected uncorrected total %v, got %v", total, got)
	}
	if s.Ball.VY != 123 {
		t.Errorf("expected velocity untouched, got %v", s.Ball.VY)
	}
}

func TestCorrectEnergySkipsRestingState(t *testing.T) {
	s := NewSystem(0, 64)

	// Fresh from reset the kinetic term is zero; there is nothing to
	// rescale and the total must come back exactly at baseline.
	got := s.correctEnergy()

	if got != s.InitialEnergy {
		t.Errorf("expected baseline %v, got %v", s.InitialEnergy, got)
	}
}

func TestSensitiveDependenceOnID(t *testing.T) {
	a := NewSystem(0, 64)
	b := NewSystem(1, 64)

	for i := 0; i < 600; i++ {
		a.Advance(1.0 / 60)
		b.Advance(1.0 / 60)
	}

	dx := a.Ball.X - b.Ball.X
	dy := a.Ball.Y - b.Ball.Y
	sep := math.Hypot(dx, dy)
	if sep < 0.01 {
		t.Errorf("expected nearby initial conditions to diverge, separation %v", sep)
	}
}

func kinetic(s *System) float64 {
	total, potential := s.Energy()
	return total - potential
}
