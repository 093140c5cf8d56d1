package models

// JointCount is the number of actuated joints in the arm.
const JointCount = 6

// JointLimits is the allowed angle range for a joint, in radians.
type JointLimits struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Clamp constrains angle to the limit range. The second return value
// reports whether clamping was applied.
func (l JointLimits) Clamp(angle float64) (float64, bool) {
	if angle < l.Lower {
		return l.Lower, true
	}
	if angle > l.Upper {
		return l.Upper, true
	}
	return angle, false
}

// Origin is a joint's static offset transform from its parent frame:
// a translation plus a fixed-axis roll/pitch/yaw rotation. A full
// row-major 3x3 rotation matrix may be given instead of RPY, in which
// case it must be rigid (orthonormal, determinant +1).
type Origin struct {
	XYZ      [3]float64 `json:"xyz"`
	RPY      [3]float64 `json:"rpy"`
	Rotation []float64  `json:"rotation,omitempty"`
}

// Joint describes one revolute joint of the kinematic chain.
// Immutable after the chain is loaded.
type Joint struct {
	Name   string      `json:"name"`
	Index  int         `json:"index"`
	Axis   [3]float64  `json:"axis"`
	Origin Origin      `json:"origin"`
	Limits JointLimits `json:"limits"`
}

// Vector3 is a 3D position or Euler-angle triple on the wire.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a unit rotation quaternion (w + xi + yj + zk).
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose is the end-effector position and orientation in the base frame.
// Orientation is carried as a quaternion; RPY is derived for display only.
type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
	RPY         Vector3    `json:"rpy"`
}

// StateSnapshot is a point-in-time copy of the robot state, safe to
// serialize and hand to subscribers.
type StateSnapshot struct {
	JointAngles  [JointCount]float64 `json:"jointAngles"`
	Pose         Pose                `json:"pose"`
	MotionActive bool                `json:"motionActive"`
	UpdatedAt    int64               `json:"updatedAt"`
}

// ProfileType selects how a MotionRequest is interpreted.
type ProfileType string

const (
	ProfileSinusoidal  ProfileType = "sinusoidal"
	ProfileTrapezoidal ProfileType = "trapezoidal"
	ProfileDirect      ProfileType = "direct"
)

// MotionRequest is a single motion command. Exactly one shape applies
// depending on Type:
//   - sinusoidal: Joint (nil means all joints), Amplitude, Frequency, Duration
//   - trapezoidal: Targets (joint index -> target angle), MaxVelocity, AccelTime
//   - direct: Angles (all six, applied instantly)
type MotionRequest struct {
	Type        ProfileType        `json:"type"`
	Joint       *int               `json:"joint,omitempty"`
	Amplitude   float64            `json:"amplitude,omitempty"`
	Frequency   float64            `json:"frequency,omitempty"`
	Duration    float64            `json:"duration,omitempty"`
	Targets     map[string]float64 `json:"targets,omitempty"`
	MaxVelocity float64            `json:"maxVelocity,omitempty"`
	AccelTime   float64            `json:"accelTime,omitempty"`
	Angles      []float64          `json:"angles,omitempty"`
}

// TrajectorySample is one timestep of a generated trajectory: the target
// angle for each joint the motion touches, at Time seconds from the start.
type TrajectorySample struct {
	Time   float64
	Angles map[int]float64
}
