package kinematics

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"

	"arm-control/models"
)

// ErrConfiguration marks a malformed chain description. It is fatal at
// startup: a chain that fails to load prevents the service from running.
var ErrConfiguration = errors.New("invalid kinematic chain configuration")

type offset struct {
	rotation    Rotation
	translation r3.Vector
}

// Chain is the arm's immutable kinematic description: six revolute
// joints ordered root to tip. Safe for concurrent use.
type Chain struct {
	joints  [models.JointCount]models.Joint
	axes    [models.JointCount]r3.Vector
	offsets [models.JointCount]offset
}

// NewChain validates the joint descriptions and builds a chain.
func NewChain(joints []models.Joint) (*Chain, error) {
	if len(joints) != models.JointCount {
		return nil, fmt.Errorf("%w: expected %d joints, got %d", ErrConfiguration, models.JointCount, len(joints))
	}
	c := &Chain{}
	for i, j := range joints {
		if j.Index != i {
			return nil, fmt.Errorf("%w: joint %q has index %d, expected %d", ErrConfiguration, j.Name, j.Index, i)
		}
		axis := r3.Vector{X: j.Axis[0], Y: j.Axis[1], Z: j.Axis[2]}
		if axis.Norm() == 0 {
			return nil, fmt.Errorf("%w: joint %q has a zero rotation axis", ErrConfiguration, j.Name)
		}
		if j.Limits.Lower >= j.Limits.Upper {
			return nil, fmt.Errorf("%w: joint %q has inverted limits [%f, %f]", ErrConfiguration, j.Name, j.Limits.Lower, j.Limits.Upper)
		}
		rot, err := originRotation(j.Origin)
		if err != nil {
			return nil, fmt.Errorf("%w: joint %q: %v", ErrConfiguration, j.Name, err)
		}
		c.joints[i] = j
		c.axes[i] = axis.Normalize()
		c.offsets[i] = offset{
			rotation:    rot,
			translation: r3.Vector{X: j.Origin.XYZ[0], Y: j.Origin.XYZ[1], Z: j.Origin.XYZ[2]},
		}
	}
	return c, nil
}

func originRotation(o models.Origin) (Rotation, error) {
	if len(o.Rotation) == 0 {
		return FromRPY(o.RPY[0], o.RPY[1], o.RPY[2]), nil
	}
	if len(o.Rotation) != 9 {
		return Rotation{}, fmt.Errorf("rotation matrix has %d elements, expected 9", len(o.Rotation))
	}
	var rot Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot[i][j] = o.Rotation[i*3+j]
		}
	}
	if !rot.IsRigid() {
		return Rotation{}, errors.New("offset transform is not rigid")
	}
	return rot, nil
}

// Joints returns a copy of the joint descriptions, root to tip.
func (c *Chain) Joints() []models.Joint {
	out := make([]models.Joint, models.JointCount)
	copy(out, c.joints[:])
	return out
}

// Joint returns the description of the joint at the given ordinal.
func (c *Chain) Joint(index int) models.Joint {
	return c.joints[index]
}

// ClampAngles constrains every angle to its joint's limits. The second
// return value reports whether any angle was clamped.
func (c *Chain) ClampAngles(angles [models.JointCount]float64) ([models.JointCount]float64, bool) {
	clamped := false
	for i := range angles {
		a, did := c.joints[i].Limits.Clamp(angles[i])
		angles[i] = a
		clamped = clamped || did
	}
	return angles, clamped
}

// ForwardKinematics computes the end-effector pose for the given joint
// angles by composing, root to tip, each joint's static offset with the
// rotation about its axis. Out-of-limit angles are clamped first; the
// second return value reports whether that happened. Pure and O(6).
func (c *Chain) ForwardKinematics(angles [models.JointCount]float64) (models.Pose, bool) {
	angles, clamped := c.ClampAngles(angles)
	rot := Identity()
	pos := r3.Vector{}
	for i := 0; i < models.JointCount; i++ {
		pos = pos.Add(rot.Apply(c.offsets[i].translation))
		rot = rot.Mul(c.offsets[i].rotation)
		rot = rot.Mul(AboutAxis(c.axes[i], angles[i]))
	}
	return models.Pose{
		Position:    models.Vector3{X: pos.X, Y: pos.Y, Z: pos.Z},
		Orientation: rot.Quaternion(),
		RPY:         rot.RPY(),
	}, clamped
}
