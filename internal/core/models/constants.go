package models

// Units are unreal units (uu), seconds and uu/s.
const (
	BallRestZ  float32 = 93.15
	CarSpawnZ  float32 = 17
	BoostMax   float32 = 100
	BoostStart float32 = 100.0 / 3

	BoostUsedPerSecond float32 = 100.0 / 3

	SupersonicStartSpeed    float32 = 2200
	SupersonicMaintainSpeed float32 = 2100

	JumpMinTime        float32 = 0.025
	JumpMaxTime        float32 = 0.2
	DoubleJumpMaxDelay float32 = 1.25
	FlipTorqueTime     float32 = 0.65

	AutoFlipTime float32 = 0.4

	DemoRespawnTime float32 = 3
	BumpCooldown    float32 = 0.25

	BoostPadBigAmount     float32 = 100
	BoostPadSmallAmount   float32 = 12
	BoostPadBigCooldown   float32 = 10
	BoostPadSmallCooldown float32 = 4
)
