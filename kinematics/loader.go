package kinematics

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"arm-control/models"
)

type chainFile struct {
	Joints []models.Joint `json:"joints"`
}

// LoadFile reads a JSON chain description and builds the chain.
func LoadFile(path string) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfiguration, path, err)
	}
	var cf chainFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	return NewChain(cf.Joints)
}

// DefaultJoints is the built-in UR5 joint set, used when no chain file
// is configured. Values follow the standard UR5 description.
func DefaultJoints() []models.Joint {
	halfPi := math.Pi / 2
	twoPi := 2 * math.Pi
	return []models.Joint{
		{
			Name:   "shoulder_pan",
			Index:  0,
			Axis:   [3]float64{0, 0, 1},
			Origin: models.Origin{XYZ: [3]float64{0, 0, 0.089159}},
			Limits: models.JointLimits{Lower: -twoPi, Upper: twoPi},
		},
		{
			Name:   "shoulder_lift",
			Index:  1,
			Axis:   [3]float64{0, 1, 0},
			Origin: models.Origin{XYZ: [3]float64{0, 0.13585, 0}, RPY: [3]float64{0, halfPi, 0}},
			Limits: models.JointLimits{Lower: -twoPi, Upper: twoPi},
		},
		{
			Name:   "elbow",
			Index:  2,
			Axis:   [3]float64{0, 1, 0},
			Origin: models.Origin{XYZ: [3]float64{0, -0.1197, 0.425}},
			Limits: models.JointLimits{Lower: -math.Pi, Upper: math.Pi},
		},
		{
			Name:   "wrist_1",
			Index:  3,
			Axis:   [3]float64{0, 1, 0},
			Origin: models.Origin{XYZ: [3]float64{0, 0, 0.39225}, RPY: [3]float64{0, halfPi, 0}},
			Limits: models.JointLimits{Lower: -twoPi, Upper: twoPi},
		},
		{
			Name:   "wrist_2",
			Index:  4,
			Axis:   [3]float64{0, 0, 1},
			Origin: models.Origin{XYZ: [3]float64{0, 0.093, 0}},
			Limits: models.JointLimits{Lower: -twoPi, Upper: twoPi},
		},
		{
			Name:   "wrist_3",
			Index:  5,
			Axis:   [3]float64{0, 1, 0},
			Origin: models.Origin{XYZ: [3]float64{0, 0, 0.09465}},
			Limits: models.JointLimits{Lower: -twoPi, Upper: twoPi},
		},
	}
}

// Load builds the chain from the configured path, falling back to the
// built-in UR5 description when path is empty.
func Load(path string) (*Chain, error) {
	if path == "" {
		return NewChain(DefaultJoints())
	}
	return LoadFile(path)
}
