// Package motion generates time-parameterized joint trajectories and
// executes them against the shared robot state. All angles are radians,
// velocities rad/s, times seconds.
package motion

import (
	"errors"
	"fmt"
	"math"

	"arm-control/models"
)

var (
	// ErrInvalidRequest marks a malformed motion request (unknown profile
	// kind, out-of-range joint index, wrong angle count). The request is
	// rejected and no state is mutated.
	ErrInvalidRequest = errors.New("invalid motion request")

	// ErrInvalidProfileParameters marks profile parameters that cannot
	// produce a trajectory (non-positive velocity, acceleration time,
	// frequency or duration).
	ErrInvalidProfileParameters = errors.New("invalid profile parameters")
)

// Trajectory is a finite, ordered sequence of samples produced lazily.
// It is one-shot: each call to Next advances past the returned sample,
// and an exhausted trajectory cannot be restarted.
type Trajectory struct {
	duration float64
	next     func() (models.TrajectorySample, bool)
}

// Next returns the next sample. ok is false once the sequence is exhausted.
func (t *Trajectory) Next() (sample models.TrajectorySample, ok bool) {
	return t.next()
}

// Duration returns the trajectory's total wall-clock duration in seconds.
func (t *Trajectory) Duration() float64 {
	return t.duration
}

// sampled builds a one-shot trajectory that evaluates pos at every tick
// boundary from t=0 through t=duration inclusive. The final sample is
// evaluated exactly at duration so the sequence ends on the target.
func sampled(duration, tick float64, pos func(t float64) map[int]float64) *Trajectory {
	steps := int(math.Ceil(duration/tick - 1e-9))
	if steps < 0 {
		steps = 0
	}
	i := 0
	return &Trajectory{
		duration: duration,
		next: func() (models.TrajectorySample, bool) {
			if i > steps {
				return models.TrajectorySample{}, false
			}
			t := float64(i) * tick
			if i == steps {
				t = duration
			}
			i++
			return models.TrajectorySample{Time: t, Angles: pos(t)}, true
		},
	}
}

// Sinusoidal produces angle(t) = amplitude * sin(frequency * t) for every
// joint in joints, sampled at the tick interval over [0, duration].
func Sinusoidal(joints []int, amplitude, frequency, duration, tick float64) (*Trajectory, error) {
	if frequency <= 0 || duration <= 0 || tick <= 0 {
		return nil, fmt.Errorf("%w: frequency, duration and tick must be positive", ErrInvalidProfileParameters)
	}
	if len(joints) == 0 {
		return nil, fmt.Errorf("%w: no joints selected", ErrInvalidRequest)
	}
	for _, j := range joints {
		if j < 0 || j >= models.JointCount {
			return nil, fmt.Errorf("%w: joint index %d out of range", ErrInvalidRequest, j)
		}
	}
	return sampled(duration, tick, func(t float64) map[int]float64 {
		angle := amplitude * math.Sin(frequency*t)
		out := make(map[int]float64, len(joints))
		for _, j := range joints {
			out[j] = angle
		}
		return out
	}), nil
}

// Move is one joint's start and target angle for a trapezoidal profile.
type Move struct {
	Start  float64
	Target float64
}

// trapezoid holds the solved phase parameters for a single joint.
type trapezoid struct {
	start, target float64
	sign          float64
	peakVel       float64
	accel         float64
	accelTime     float64
	cruiseTime    float64
	total         float64
}

// solveTrapezoid derives the phase timing for one joint. When the move is
// too short for two full ramps at maxVel, the peak velocity is reduced so
// the ramps meet exactly at the midpoint (the cruise phase vanishes);
// the acceleration time itself is kept.
func solveTrapezoid(m Move, maxVel, accelTime float64) trapezoid {
	dist := m.Target - m.Start
	tr := trapezoid{start: m.Start, target: m.Target, sign: 1, accelTime: accelTime}
	if dist < 0 {
		tr.sign = -1
		dist = -dist
	}
	if dist == 0 {
		return tr
	}
	tr.peakVel = maxVel
	if rampDist := maxVel * accelTime; rampDist > dist {
		tr.peakVel = dist / accelTime
	}
	tr.accel = tr.peakVel / accelTime
	tr.cruiseTime = (dist - tr.peakVel*accelTime) / tr.peakVel
	if tr.cruiseTime < 0 {
		tr.cruiseTime = 0
	}
	tr.total = 2*accelTime + tr.cruiseTime
	return tr
}

// at evaluates the position at time t. Continuous in position and
// velocity, with zero velocity at both ends.
func (tr trapezoid) at(t float64) float64 {
	switch {
	case tr.total == 0 || t >= tr.total:
		return tr.target
	case t <= 0:
		return tr.start
	case t <= tr.accelTime:
		return tr.start + tr.sign*0.5*tr.accel*t*t
	case t <= tr.accelTime+tr.cruiseTime:
		ramp := 0.5 * tr.peakVel * tr.accelTime
		return tr.start + tr.sign*(ramp+tr.peakVel*(t-tr.accelTime))
	default:
		td := t - tr.accelTime - tr.cruiseTime
		ramp := 0.5 * tr.peakVel * tr.accelTime
		cruise := tr.peakVel * tr.cruiseTime
		return tr.start + tr.sign*(ramp+cruise+tr.peakVel*td-0.5*tr.accel*td*td)
	}
}

// Trapezoidal produces a trapezoidal velocity profile for each joint in
// moves, sampled at the tick interval. Joints with shorter moves reach
// their targets early and hold. The total duration is an output of the
// computation: a zero-distance request yields a single trivial sample.
func Trapezoidal(moves map[int]Move, maxVel, accelTime, tick float64) (*Trajectory, error) {
	if maxVel <= 0 || accelTime <= 0 || tick <= 0 {
		return nil, fmt.Errorf("%w: maxVelocity, accelTime and tick must be positive", ErrInvalidProfileParameters)
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: no target joints", ErrInvalidRequest)
	}
	profiles := make(map[int]trapezoid, len(moves))
	duration := 0.0
	for j, m := range moves {
		if j < 0 || j >= models.JointCount {
			return nil, fmt.Errorf("%w: joint index %d out of range", ErrInvalidRequest, j)
		}
		tr := solveTrapezoid(m, maxVel, accelTime)
		profiles[j] = tr
		if tr.total > duration {
			duration = tr.total
		}
	}
	return sampled(duration, tick, func(t float64) map[int]float64 {
		out := make(map[int]float64, len(profiles))
		for j, tr := range profiles {
			out[j] = tr.at(t)
		}
		return out
	}), nil
}
