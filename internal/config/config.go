package config

import (
	"fmt"
	"os"

	"github.com/san-kum/trackdyn/internal/curve"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLength               = 25.0
	DefaultMaxDrop              = 10.0
	DefaultCollisionRadius      = 36.0
	DefaultCollisionWidth       = 20.0
	DefaultStiffness            = 4000000.0
	DefaultCompressionDamping   = 4000000.0
	DefaultDecompressionDamping = 4000000.0
	DefaultSprocketMass         = 65.0
	DefaultSprocketRadius       = 25.0
	DefaultTrackMass            = 600.0
	DefaultMass                 = 10000.0
)

// Vehicle is the per-vehicle-type asset. It is read-only once a vehicle is
// built from it and may be shared between instances.
type Vehicle struct {
	Name         string             `yaml:"name"`
	Body         BodyConfig         `yaml:"body"`
	Track        TrackConfig        `yaml:"track"`
	Suspension   SuspensionConfig   `yaml:"suspension"`
	Engine       EngineConfig       `yaml:"engine"`
	Gearbox      GearboxConfig      `yaml:"gearbox"`
	Steering     SteeringConfig     `yaml:"steering"`
	Brake        BrakeConfig        `yaml:"brake"`
	Friction     FrictionConfig     `yaml:"friction"`
	Damping      DampingConfig      `yaml:"damping"`
	Sleep        SleepConfig        `yaml:"sleep"`
	Correction   CorrectionConfig   `yaml:"correction"`
	AntiRollover AntiRolloverConfig `yaml:"anti_rollover"`
	Sound        SoundConfig        `yaml:"sound"`
}

type BodyConfig struct {
	Wheeled            bool       `yaml:"wheeled"`
	TransmissionLength float64    `yaml:"transmission_length"`
	Mass               float64    `yaml:"mass"`
	HalfExtent         vmath.Vec3 `yaml:"half_extent"`
	COMOffset          vmath.Vec3 `yaml:"com_offset"`
	LinearDamping      float64    `yaml:"linear_damping"`
	AngularDamping     float64    `yaml:"angular_damping"`
}

type TrackConfig struct {
	SprocketMass   float64 `yaml:"sprocket_mass"`
	SprocketRadius float64 `yaml:"sprocket_radius"`
	TrackMass      float64 `yaml:"track_mass"`
}

// MOI is the rotational inertia of one track side around the sprocket axle.
func (t TrackConfig) MOI() float64 {
	r2 := t.SprocketRadius * t.SprocketRadius
	return t.SprocketMass/2*r2 + t.TrackMass*r2
}

type WheelConfig struct {
	Name          string        `yaml:"name"`
	Location      vmath.Vec3    `yaml:"location"`
	Rotation      vmath.Rotator `yaml:"rotation"`
	RightTrack    bool          `yaml:"right_track"`
	DrivingWheel  bool          `yaml:"driving_wheel"`
	SteeringWheel bool          `yaml:"steering_wheel"`

	// Custom selects the per-wheel values below instead of the suspension defaults.
	Custom               bool       `yaml:"custom"`
	Length               float64    `yaml:"length"`
	MaxDrop              float64    `yaml:"max_drop"`
	CollisionRadius      float64    `yaml:"collision_radius"`
	CollisionWidth       float64    `yaml:"collision_width"`
	Stiffness            float64    `yaml:"stiffness"`
	CompressionDamping   float64    `yaml:"compression_damping"`
	DecompressionDamping float64    `yaml:"decompression_damping"`
	VisualOffset         vmath.Vec3 `yaml:"visual_offset"`
}

type SuspensionConfig struct {
	Wheels []WheelConfig `yaml:"wheels"`

	DefaultLength               float64    `yaml:"default_length"`
	DefaultMaxDrop              float64    `yaml:"default_max_drop"`
	DefaultCollisionRadius      float64    `yaml:"default_collision_radius"`
	DefaultCollisionWidth       float64    `yaml:"default_collision_width"`
	DefaultStiffness            float64    `yaml:"default_stiffness"`
	DefaultCompressionDamping   float64    `yaml:"default_compression_damping"`
	DefaultDecompressionDamping float64    `yaml:"default_decompression_damping"`
	DefaultVisualOffset         vmath.Vec3 `yaml:"default_visual_offset"`
	VisualCollisionRadius       float64    `yaml:"visual_collision_radius"`

	StiffnessFactor            float64 `yaml:"stiffness_factor"`
	CompressionDampingFactor   float64 `yaml:"compression_damping_factor"`
	DecompressionDampingFactor float64 `yaml:"decompression_damping_factor"`

	DampingCorrection       bool    `yaml:"damping_correction"`
	DampingCorrectionFactor float64 `yaml:"damping_correction_factor"`
	AdaptiveDamping         bool    `yaml:"adaptive_damping"`
	DropFactor              float64 `yaml:"drop_factor"`
	NotifyHits              bool    `yaml:"notify_hits"`
	ClampForce              bool    `yaml:"clamp_force"`
	AntiSlipFactor          float64 `yaml:"anti_slip_factor"`

	Simplified                bool `yaml:"simplified"`
	SimplifiedWithoutThrottle bool `yaml:"simplified_without_throttle"`
	SimplifiedByCamera        bool `yaml:"simplified_by_camera"`
}

type EngineConfig struct {
	ThrottleUpRatio        float64     `yaml:"throttle_up_ratio"`
	ThrottleDownRatio      float64     `yaml:"throttle_down_ratio"`
	DifferentialRatio      float64     `yaml:"differential_ratio"`
	TransmissionEfficiency float64     `yaml:"transmission_efficiency"`
	TorqueCurve            curve.Curve `yaml:"torque_curve"`
	CustomTorqueMultiplier float64     `yaml:"custom_torque_multiplier"`
	CustomForceMultiplier  float64     `yaml:"custom_force_multiplier"`
	LimitTorque            bool        `yaml:"limit_torque"`

	ExtraPowerRatio         float64 `yaml:"extra_power_ratio"`
	RearExtraPowerRatio     float64 `yaml:"rear_extra_power_ratio"`
	StartExtraPowerRatio    float64 `yaml:"start_extra_power_ratio"`
	StartExtraPowerDuration float64 `yaml:"start_extra_power_duration"`
	StartExtraPowerCooldown float64 `yaml:"start_extra_power_cooldown"`

	TorqueTransferThrottleFactor float64 `yaml:"torque_transfer_throttle_factor"`
	TorqueTransferSteeringFactor float64 `yaml:"torque_transfer_steering_factor"`

	LimitMaxSpeed                 bool        `yaml:"limit_max_speed"`
	MaxSpeedCurve                 curve.Curve `yaml:"max_speed_curve"`
	ScaleForceToActiveFrictionPts bool        `yaml:"scale_force_to_active_friction_points"`
}

type Gear struct {
	Ratio     float64 `yaml:"ratio"`
	DownRatio float64 `yaml:"down_ratio"`
	UpRatio   float64 `yaml:"up_ratio"`
}

type GearboxConfig struct {
	Gears    []Gear `yaml:"gears"`
	AutoGear bool   `yaml:"auto_gear"`
	// AutoBoxLatency is the minimum time between automatic shifts.
	AutoBoxLatency float64 `yaml:"auto_box_latency"`
	// ShiftLatency defers upshifts above neutral by this many seconds.
	ShiftLatency           float64 `yaml:"shift_latency"`
	ZeroTorqueWhenShifting bool    `yaml:"zero_torque_when_shifting"`
}

type SteeringConfig struct {
	AngularVelocitySteering    bool        `yaml:"angular_velocity_steering"`
	AngularSpeed               float64     `yaml:"angular_speed"`
	UpRatio                    float64     `yaml:"up_ratio"`
	DownRatio                  float64     `yaml:"down_ratio"`
	FrictionThreshold          float64     `yaml:"friction_threshold"`
	UseCurve                   bool        `yaml:"use_curve"`
	Curve                      curve.Curve `yaml:"curve"`
	MaximizeZeroThrottle       bool        `yaml:"maximize_zero_throttle"`
	ActiveDrivenFrictionPts    bool        `yaml:"active_driven_friction_points"`
	AutoBrakeSteeringThreshold float64     `yaml:"auto_brake_steering_threshold"`
	TurnRateModAngularSpeed    float64     `yaml:"turn_rate_mod_angular_speed"`
	AirControl                 float64     `yaml:"air_control"`
}

type BrakeConfig struct {
	Force                 float64     `yaml:"force"`
	AutoBrake             bool        `yaml:"auto_brake"`
	AutoBrakeUpRatio      curve.Curve `yaml:"auto_brake_up_ratio"`
	AutoBrakeFactor       float64     `yaml:"auto_brake_factor"`
	SteeringBrakeTransfer float64     `yaml:"steering_brake_transfer"`
	SteeringBrakeFactor   float64     `yaml:"steering_brake_factor"`

	Stabilizer                bool    `yaml:"stabilizer"`
	StabilizerMinHullVelocity float64 `yaml:"stabilizer_min_hull_velocity"`
	StabilizerActivationDelta float64 `yaml:"stabilizer_activation_delta"`
	StabilizerBrakeFactor     float64 `yaml:"stabilizer_brake_factor"`
	StabilizerBrakeUpRatio    float64 `yaml:"stabilizer_brake_up_ratio"`

	SpeedLimitBrakeFactor  float64 `yaml:"speed_limit_brake_factor"`
	SpeedLimitBrakeUpRatio float64 `yaml:"speed_limit_brake_up_ratio"`
}

// Ellipse holds longitudinal (X) and lateral (Y) friction coefficients.
type Ellipse struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type FrictionConfig struct {
	Static                            Ellipse `yaml:"static"`
	Kinetic                           Ellipse `yaml:"kinetic"`
	KineticTorqueCoefficient          float64 `yaml:"kinetic_torque_coefficient"`
	RollingCoefficient                float64 `yaml:"rolling_coefficient"`
	RollingVelocityCoefficientSquared float64 `yaml:"rolling_velocity_coefficient_squared"`
	LinearSpeedPower                  float64 `yaml:"linear_speed_power"`
	// QueryPointVelocity asks the body for contact point velocity instead of v + w x r.
	QueryPointVelocity bool `yaml:"query_point_velocity"`
}

type DampingConfig struct {
	CustomLinear  bool       `yaml:"custom_linear"`
	DryLinear     vmath.Vec3 `yaml:"dry_linear"`
	FluidLinear   vmath.Vec3 `yaml:"fluid_linear"`
	CustomAngular bool       `yaml:"custom_angular"`
	DryAngular    vmath.Vec3 `yaml:"dry_angular"`
	FluidAngular  vmath.Vec3 `yaml:"fluid_angular"`
}

type SleepConfig struct {
	LinearVelocity  float64 `yaml:"linear_velocity"`
	AngularVelocity float64 `yaml:"angular_velocity"`
	Delay           float64 `yaml:"delay"`
	NeverSleep      bool    `yaml:"never_sleep"`
}

type CorrectionConfig struct {
	LinearDeltaThresholdSq float64 `yaml:"linear_delta_threshold_sq"`
	LinearInterpAlpha      float64 `yaml:"linear_interp_alpha"`
	LinearRecipFixTime     float64 `yaml:"linear_recip_fix_time"`
	AngularDeltaThreshold  float64 `yaml:"angular_delta_threshold"`
	AngularInterpAlpha     float64 `yaml:"angular_interp_alpha"`
	AngularRecipFixTime    float64 `yaml:"angular_recip_fix_time"`
	BodySpeedThresholdSq   float64 `yaml:"body_speed_threshold_sq"`
}

type AntiRolloverConfig struct {
	Enabled        bool        `yaml:"enabled"`
	ValueThreshold float64     `yaml:"value_threshold"`
	ForceCurve     curve.Curve `yaml:"force_curve"`
}

type SoundConfig struct {
	RPMInterpSpeed   float64 `yaml:"rpm_interp_speed"`
	LoadInterpSpeed  float64 `yaml:"load_interp_speed"`
	TurboInterpSpeed float64 `yaml:"turbo_interp_speed"`
}

// DefaultGears is a two-reverse, neutral, five-forward box.
func DefaultGears() []Gear {
	return []Gear{
		{Ratio: 4.0, DownRatio: 0.15, UpRatio: 0.9},
		{Ratio: 6.0, DownRatio: 0.15, UpRatio: 0.9},
		{Ratio: 0, DownRatio: 0.15, UpRatio: 0.9},
		{Ratio: 6.0, DownRatio: 0.15, UpRatio: 0.9},
		{Ratio: 3.6, DownRatio: 0.3, UpRatio: 0.9},
		{Ratio: 2.4, DownRatio: 0.3, UpRatio: 0.9},
		{Ratio: 1.6, DownRatio: 0.3, UpRatio: 0.9},
		{Ratio: 1.1, DownRatio: 0.3, UpRatio: 0.9},
	}
}

// TrackWheels lays out n road wheels per side spaced along X.
func TrackWheels(n int, spacing, halfWidth, height float64) []WheelConfig {
	wheels := make([]WheelConfig, 0, 2*n)
	start := -spacing * float64(n-1) / 2
	for _, right := range []bool{false, true} {
		side, y := "l", -halfWidth
		if right {
			side, y = "r", halfWidth
		}
		for i := 0; i < n; i++ {
			wheels = append(wheels, WheelConfig{
				Name:         fmt.Sprintf("wheel_%s%d", side, i),
				Location:     vmath.Vec3{start + spacing*float64(i), y, height},
				RightTrack:   right,
				DrivingWheel: true,
			})
		}
	}
	return wheels
}

func DefaultConfig() *Vehicle {
	return &Vehicle{
		Name: "default",
		Body: BodyConfig{
			TransmissionLength: 400,
			Mass:               DefaultMass,
			HalfExtent:         vmath.Vec3{300, 150, 80},
			LinearDamping:      0.5,
			AngularDamping:     0.5,
		},
		Track: TrackConfig{
			SprocketMass:   DefaultSprocketMass,
			SprocketRadius: DefaultSprocketRadius,
			TrackMass:      DefaultTrackMass,
		},
		Suspension: SuspensionConfig{
			Wheels:                      TrackWheels(5, 100, 130, -40),
			DefaultLength:               DefaultLength,
			DefaultMaxDrop:              DefaultMaxDrop,
			DefaultCollisionRadius:      DefaultCollisionRadius,
			DefaultCollisionWidth:       DefaultCollisionWidth,
			DefaultStiffness:            DefaultStiffness,
			DefaultCompressionDamping:   DefaultCompressionDamping,
			DefaultDecompressionDamping: DefaultDecompressionDamping,
			VisualCollisionRadius:       DefaultCollisionRadius,
			StiffnessFactor:             1,
			CompressionDampingFactor:    1,
			DecompressionDampingFactor:  1,
			DampingCorrection:           true,
			DampingCorrectionFactor:     1,
			AdaptiveDamping:             true,
			DropFactor:                  5,
			NotifyHits:                  true,
			ClampForce:                  true,
			SimplifiedWithoutThrottle:   true,
			SimplifiedByCamera:          true,
		},
		Engine: EngineConfig{
			ThrottleUpRatio:              0.5,
			ThrottleDownRatio:            1,
			DifferentialRatio:            3.5,
			TransmissionEfficiency:       0.9,
			TorqueCurve:                  curve.Points(0, 800, 1400, 850, 2800, 800, 2810, 0),
			CustomTorqueMultiplier:       1,
			CustomForceMultiplier:        1,
			LimitTorque:                  true,
			ExtraPowerRatio:              3,
			RearExtraPowerRatio:          1,
			StartExtraPowerRatio:         1,
			TorqueTransferThrottleFactor: 1,
			TorqueTransferSteeringFactor: 1,
			MaxSpeedCurve:                curve.Points(0, 2000),
		},
		Gearbox: GearboxConfig{
			Gears:          DefaultGears(),
			AutoGear:       true,
			AutoBoxLatency: 0.5,
		},
		Steering: SteeringConfig{
			AngularVelocitySteering:    true,
			AngularSpeed:               30,
			UpRatio:                    1,
			DownRatio:                  1,
			FrictionThreshold:          0.5,
			Curve:                      curve.Points(0, 30, 2000, 30, 2500, 0),
			ActiveDrivenFrictionPts:    true,
			AutoBrakeSteeringThreshold: 5000,
		},
		Brake: BrakeConfig{
			Force:                     30,
			AutoBrake:                 true,
			AutoBrakeUpRatio:          curve.Points(0, 30, 1000, 30),
			AutoBrakeFactor:           1,
			SteeringBrakeTransfer:     0.7,
			SteeringBrakeFactor:       1,
			Stabilizer:                true,
			StabilizerMinHullVelocity: 10,
			StabilizerActivationDelta: 2,
			StabilizerBrakeFactor:     0.2,
			StabilizerBrakeUpRatio:    1,
			SpeedLimitBrakeFactor:     0.1,
			SpeedLimitBrakeUpRatio:    1,
		},
		Friction: FrictionConfig{
			Static:                            Ellipse{X: 1, Y: 1},
			Kinetic:                           Ellipse{X: 1, Y: 1},
			KineticTorqueCoefficient:          1,
			RollingCoefficient:                0.02,
			RollingVelocityCoefficientSquared: 0.000015,
			LinearSpeedPower:                  1,
		},
		Sleep: SleepConfig{
			LinearVelocity:  5,
			AngularVelocity: 5,
			Delay:           2,
		},
		Correction: CorrectionConfig{
			LinearDeltaThresholdSq: 5,
			LinearInterpAlpha:      0.2,
			LinearRecipFixTime:     1,
			AngularDeltaThreshold:  0.2 * 3.14159265358979,
			AngularInterpAlpha:     0.1,
			AngularRecipFixTime:    1,
			BodySpeedThresholdSq:   0.2,
		},
		Sound: SoundConfig{
			RPMInterpSpeed:   0.5,
			LoadInterpSpeed:  1,
			TurboInterpSpeed: 0.5,
		},
	}
}

func Load(path string) (*Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Vehicle) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Vehicle) Validate() error {
	if len(c.Gearbox.Gears) == 0 {
		return dynamo.ErrNoGears
	}
	if c.Track.SprocketRadius <= 0 {
		return fmt.Errorf("%w: sprocket radius %v must be positive", dynamo.ErrInvalidConfig, c.Track.SprocketRadius)
	}
	if c.Body.Mass <= 0 {
		return fmt.Errorf("%w: body mass %v must be positive", dynamo.ErrInvalidConfig, c.Body.Mass)
	}
	if c.Engine.TorqueCurve.Empty() {
		return fmt.Errorf("%w: engine torque curve is empty", dynamo.ErrInvalidConfig)
	}
	for i, w := range c.Suspension.Wheels {
		if c.Wheel(i).Length <= 0 {
			return fmt.Errorf("%w: wheel %d (%s) has non-positive length", dynamo.ErrInvalidConfig, i, w.Name)
		}
	}
	return nil
}

// Wheel resolves wheel i against the suspension defaults.
func (c *Vehicle) Wheel(i int) WheelConfig {
	w := c.Suspension.Wheels[i]
	if w.Custom {
		return w
	}
	s := c.Suspension
	w.Length = s.DefaultLength
	w.MaxDrop = s.DefaultMaxDrop
	w.CollisionRadius = s.DefaultCollisionRadius
	w.CollisionWidth = s.DefaultCollisionWidth
	w.Stiffness = s.DefaultStiffness
	w.CompressionDamping = s.DefaultCompressionDamping
	w.DecompressionDamping = s.DefaultDecompressionDamping
	w.VisualOffset = s.DefaultVisualOffset
	return w
}

// Clone returns a deep copy so presets can be modified without sharing slices.
func (c *Vehicle) Clone() *Vehicle {
	out := *c
	out.Suspension.Wheels = append([]WheelConfig(nil), c.Suspension.Wheels...)
	out.Gearbox.Gears = append([]Gear(nil), c.Gearbox.Gears...)
	out.Engine.TorqueCurve = curve.New(c.Engine.TorqueCurve.Keys...)
	out.Engine.MaxSpeedCurve = curve.New(c.Engine.MaxSpeedCurve.Keys...)
	out.Steering.Curve = curve.New(c.Steering.Curve.Keys...)
	out.Brake.AutoBrakeUpRatio = curve.New(c.Brake.AutoBrakeUpRatio.Keys...)
	out.AntiRollover.ForceCurve = curve.New(c.AntiRollover.ForceCurve.Keys...)
	return &out
}
