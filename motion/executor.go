package motion

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"arm-control/kinematics"
	"arm-control/models"
)

// Executor owns all writes to the shared robot state. At most one motion
// is ever active: any new command bumps the generation counter, which the
// running trajectory loop checks inside the same guarded section it
// writes under, so a cancelled trajectory can never land a sample after a
// newer command has. Last writer wins; cancelled motions are not resumed.
type Executor struct {
	chain  *kinematics.Chain
	state  *State
	tick   time.Duration
	logger *slog.Logger

	mu  sync.Mutex
	gen uint64
}

// NewExecutor creates an executor driving the given state at the given
// tick interval.
func NewExecutor(chain *kinematics.Chain, state *State, tick time.Duration, logger *slog.Logger) *Executor {
	return &Executor{
		chain:  chain,
		state:  state,
		tick:   tick,
		logger: logger.With("component", "motion_executor"),
	}
}

// State returns the shared robot state the executor writes to.
func (e *Executor) State() *State {
	return e.state
}

// SetJointsDirect applies all six joint angles immediately, cancelling
// any running motion. Out-of-limit angles are clamped and logged, never
// rejected. Returns the applied snapshot.
func (e *Executor) SetJointsDirect(angles [models.JointCount]float64) models.StateSnapshot {
	e.mu.Lock()
	e.gen++
	clamped, didClamp := e.chain.ClampAngles(angles)
	pose, _ := e.chain.ForwardKinematics(clamped)
	e.state.set(clamped, pose, false)
	// Snapshot while still holding the lock: the response must reflect
	// this write, not whatever a racing command lands next.
	snap := e.state.Snapshot()
	e.mu.Unlock()

	if didClamp {
		e.logger.Warn("joint targets clamped to limits", "requested", angles, "applied", clamped)
	}
	return snap
}

// StartMotion validates the request, cancels any running motion and
// starts consuming the new trajectory in the background. It returns as
// soon as the trajectory is scheduled; completion is not reported.
func (e *Executor) StartMotion(req models.MotionRequest) error {
	// Validation and the generation bump share one critical section so a
	// preempting trajectory is built from exactly the angles it takes
	// over at, never from a tick-stale read.
	e.mu.Lock()
	traj, err := e.buildTrajectory(req)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.gen++
	myGen := e.gen
	e.state.setMotionActive(true)
	e.mu.Unlock()

	e.logger.Info("motion started",
		"type", string(req.Type),
		"duration", traj.Duration(),
		"generation", myGen)
	go e.run(myGen, traj)
	return nil
}

// Execute dispatches a motion request of any kind: direct sets apply
// synchronously, profile requests are scheduled asynchronously.
func (e *Executor) Execute(req models.MotionRequest) error {
	if req.Type == models.ProfileDirect {
		angles, err := directAngles(req.Angles)
		if err != nil {
			return err
		}
		e.SetJointsDirect(angles)
		return nil
	}
	return e.StartMotion(req)
}

// run consumes the trajectory tick by tick until it is exhausted or a
// newer command bumps the generation. The ticker keeps the loop on tick
// boundaries without holding any lock across the sleep.
func (e *Executor) run(myGen uint64, traj *Trajectory) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		sample, ok := traj.Next()
		if !ok {
			break
		}
		if !e.applySample(myGen, sample) {
			e.logger.Info("motion cancelled", "generation", myGen)
			return
		}
		<-ticker.C
	}

	e.mu.Lock()
	if e.gen == myGen {
		e.state.setMotionActive(false)
	}
	e.mu.Unlock()
	e.logger.Info("motion completed", "generation", myGen)
}

// applySample merges the sample into the current angles and writes the
// result. The generation check and the state write happen under the same
// lock, which is what makes cancellation atomic with respect to writes.
func (e *Executor) applySample(myGen uint64, sample models.TrajectorySample) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != myGen {
		return false
	}
	angles := e.state.Angles()
	for j, a := range sample.Angles {
		angles[j] = a
	}
	angles, _ = e.chain.ClampAngles(angles)
	pose, _ := e.chain.ForwardKinematics(angles)
	e.state.set(angles, pose, true)
	return true
}

// buildTrajectory validates a profile request against the current state
// and produces its sample sequence. Nothing is mutated on failure.
func (e *Executor) buildTrajectory(req models.MotionRequest) (*Trajectory, error) {
	tick := e.tick.Seconds()
	switch req.Type {
	case models.ProfileSinusoidal:
		joints := allJoints()
		if req.Joint != nil {
			if *req.Joint < 0 || *req.Joint >= models.JointCount {
				return nil, fmt.Errorf("%w: joint index %d out of range", ErrInvalidRequest, *req.Joint)
			}
			joints = []int{*req.Joint}
		}
		return Sinusoidal(joints, req.Amplitude, req.Frequency, req.Duration, tick)

	case models.ProfileTrapezoidal:
		current := e.state.Angles()
		moves, err := parseTargets(req.Targets, current)
		if err != nil {
			return nil, err
		}
		return Trapezoidal(moves, req.MaxVelocity, req.AccelTime, tick)

	default:
		return nil, fmt.Errorf("%w: unknown profile type %q", ErrInvalidRequest, req.Type)
	}
}

func allJoints() []int {
	joints := make([]int, models.JointCount)
	for i := range joints {
		joints[i] = i
	}
	return joints
}

func parseTargets(targets map[string]float64, current [models.JointCount]float64) (map[int]Move, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no target joints", ErrInvalidRequest)
	}
	moves := make(map[int]Move, len(targets))
	for key, target := range targets {
		j, err := strconv.Atoi(key)
		if err != nil || j < 0 || j >= models.JointCount {
			return nil, fmt.Errorf("%w: invalid joint index %q", ErrInvalidRequest, key)
		}
		moves[j] = Move{Start: current[j], Target: target}
	}
	return moves, nil
}

func directAngles(angles []float64) ([models.JointCount]float64, error) {
	var out [models.JointCount]float64
	if len(angles) != models.JointCount {
		return out, fmt.Errorf("%w: expected %d angles, got %d", ErrInvalidRequest, models.JointCount, len(angles))
	}
	copy(out[:], angles)
	return out, nil
}
