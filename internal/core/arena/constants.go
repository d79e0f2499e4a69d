package arena

import "math"

// Standard soccar field. Half extents, uu.
const (
	ArenaHalfX  float32 = 4096
	ArenaHalfY  float32 = 5120
	ArenaHeight float32 = 2044

	DefaultTickRate float32 = 120
	Gravity         float32 = -650
)

const (
	BallRadius      float32 = 91.25
	BallMaxSpeed    float32 = 6000
	BallMaxAngSpeed float32 = 6
	BallDrag        float32 = 0.03
	BallRestitution float32 = 0.6
	BallFriction    float32 = 0.35
	BallWallBounce  float32 = 0.6
)

const (
	CarMaxSpeed      float32 = 2300
	CarMaxAngSpeed   float32 = 5.5
	ThrottleAccel    float32 = 1600
	ThrottleTopSpeed float32 = 1410
	BrakeAccel       float32 = 3500
	CoastDecel       float32 = 525
	BoostAccelGround float32 = 2975.0 / 3
	BoostAccelAir    float32 = 3175.0 / 3
	AirThrottleAccel float32 = 200.0 / 3
	LateralGrip      float32 = 12
	HandbrakeRate    float32 = 5

	JumpImmediateSpeed float32 = 291.667
	JumpAccel          float32 = 1458.333
	FlipImpulse        float32 = 500
	FlipSpinAccel      float32 = 55

	PitchTorque float32 = 12.46
	YawTorque   float32 = 9.11
	RollTorque  float32 = 38.34
	PitchDamp   float32 = 2.8
	YawDamp     float32 = 1.9
	RollDamp    float32 = 4.47

	// UprightNormZ is the smallest up.z that still lands on the wheels.
	UprightNormZ     float32 = 0.7
	AutoFlipImpulse  float32 = 200
	AutoFlipSpinRate float32 = math.Pi / 0.4

	CarWallBounce  float32 = 0.3
	BumpSpeed      float32 = 1000
	BumpUpSpeed    float32 = 300
	CarBallBounce  float32 = 0.6
	CarContactSize float32 = 0.5
)

const (
	BigPadRadius   float32 = 208
	BigPadHeight   float32 = 168
	SmallPadRadius float32 = 144
	SmallPadHeight float32 = 165
	BigPadZ        float32 = 73
	SmallPadZ      float32 = 70
)

// steerCurvature maps forward speed to turn curvature (1/uu).
var steerCurvature = [][2]float32{
	{0, 0.00690},
	{500, 0.00398},
	{1000, 0.00235},
	{1500, 0.001375},
	{1750, 0.00110},
	{2500, 0.00088},
}
