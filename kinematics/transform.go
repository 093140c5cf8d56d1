package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"arm-control/models"
)

// rigidTolerance is the maximum deviation from orthonormality accepted
// when validating a rotation matrix supplied in a chain description.
const rigidTolerance = 1e-6

// Rotation is a 3x3 rotation matrix, row-major.
type Rotation [3][3]float64

// Identity returns the identity rotation.
func Identity() Rotation {
	return Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul composes two rotations: the receiver applied first in the parent
// frame, then r in the rotated frame (standard right-multiplication).
func (a Rotation) Mul(b Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return out
}

// Apply rotates the vector v.
func (a Rotation) Apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z,
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z,
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z,
	}
}

// IsRigid reports whether the matrix is a proper rotation: orthonormal
// within tolerance and with determinant +1 (no shear, scale or reflection).
func (a Rotation) IsRigid() bool {
	// R^T * R must be the identity.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := a[0][i]*a[0][j] + a[1][i]*a[1][j] + a[2][i]*a[2][j]
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(dot-want) > rigidTolerance {
				return false
			}
		}
	}
	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	return math.Abs(det-1) <= rigidTolerance
}

// AboutAxis returns the rotation of angle radians about the given unit
// axis (Rodrigues' formula).
func AboutAxis(axis r3.Vector, angle float64) Rotation {
	u := axis.Normalize()
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	return Rotation{
		{c + u.X*u.X*t, u.X*u.Y*t - u.Z*s, u.X*u.Z*t + u.Y*s},
		{u.Y*u.X*t + u.Z*s, c + u.Y*u.Y*t, u.Y*u.Z*t - u.X*s},
		{u.Z*u.X*t - u.Y*s, u.Z*u.Y*t + u.X*s, c + u.Z*u.Z*t},
	}
}

// FromRPY builds a rotation from fixed-axis roll/pitch/yaw angles,
// composed as Rz(yaw) * Ry(pitch) * Rx(roll).
func FromRPY(roll, pitch, yaw float64) Rotation {
	rx := AboutAxis(r3.Vector{X: 1}, roll)
	ry := AboutAxis(r3.Vector{Y: 1}, pitch)
	rz := AboutAxis(r3.Vector{Z: 1}, yaw)
	return rz.Mul(ry).Mul(rx)
}

// Quaternion converts the rotation to a unit quaternion.
func (a Rotation) Quaternion() models.Quaternion {
	trace := a[0][0] + a[1][1] + a[2][2]
	var q models.Quaternion
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q.W = s / 4
		q.X = (a[2][1] - a[1][2]) / s
		q.Y = (a[0][2] - a[2][0]) / s
		q.Z = (a[1][0] - a[0][1]) / s
	case a[0][0] > a[1][1] && a[0][0] > a[2][2]:
		s := 2 * math.Sqrt(1+a[0][0]-a[1][1]-a[2][2])
		q.W = (a[2][1] - a[1][2]) / s
		q.X = s / 4
		q.Y = (a[0][1] + a[1][0]) / s
		q.Z = (a[0][2] + a[2][0]) / s
	case a[1][1] > a[2][2]:
		s := 2 * math.Sqrt(1+a[1][1]-a[0][0]-a[2][2])
		q.W = (a[0][2] - a[2][0]) / s
		q.X = (a[0][1] + a[1][0]) / s
		q.Y = s / 4
		q.Z = (a[1][2] + a[2][1]) / s
	default:
		s := 2 * math.Sqrt(1+a[2][2]-a[0][0]-a[1][1])
		q.W = (a[1][0] - a[0][1]) / s
		q.X = (a[0][2] + a[2][0]) / s
		q.Y = (a[1][2] + a[2][1]) / s
		q.Z = s / 4
	}
	return q
}

// RPY derives fixed-axis roll/pitch/yaw angles from the rotation.
// Display use only; composition always goes through the matrix form.
func (a Rotation) RPY() models.Vector3 {
	sy := -a[2][0]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	pitch := math.Asin(sy)
	var roll, yaw float64
	if math.Abs(sy) < 1-1e-9 {
		roll = math.Atan2(a[2][1], a[2][2])
		yaw = math.Atan2(a[1][0], a[0][0])
	} else {
		// Gimbal-lock fallback: fold yaw into roll.
		roll = math.Atan2(-a[1][2], a[1][1])
	}
	return models.Vector3{X: roll, Y: pitch, Z: yaw}
}
