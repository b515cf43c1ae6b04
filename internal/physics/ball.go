package physics

// Model constants shared by every simulated instance.
const (
	SubSteps = 16

	Gravity = 981.0

	ContainerRadius = 300.0
	ContainerMass   = 200.0
	BallRadius      = 30.0
	BallMass        = 10.0

	RestitutionNormal  = 1.0
	RestitutionTangent = 1.0
)

// The ball is a solid disk, the container a thin ring. The asymmetry
// is intentional.
const (
	BallInertia      = 0.5 * BallMass * BallRadius * BallRadius
	ContainerInertia = ContainerMass * ContainerRadius * ContainerRadius
)

// Ball is the rigid body bouncing inside the container. Position is
// relative to the container center; Radius, Mass and Inertia never
// change after construction.
type Ball struct {
	X, Y       float64
	VX, VY     float64
	Angle      float64
	AngularVel float64

	Radius  float64
	Mass    float64
	Inertia float64
}

// Container is the circular boundary. It rotates freely about its
// center, driven only by tangential contact with the ball, and never
// translates.
type Container struct {
	Angle      float64
	AngularVel float64

	Radius  float64
	Mass    float64
	Inertia float64
}
