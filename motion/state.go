package motion

import (
	"sync"
	"time"

	"arm-control/kinematics"
	"arm-control/models"
)

// State is the single shared record of the arm's current joint angles
// and derived end-effector pose. The executor is its sole writer; any
// goroutine may take snapshots. The lock is held only for the copy
// itself, never across a sleep or a kinematics computation.
type State struct {
	mu           sync.RWMutex
	angles       [models.JointCount]float64
	pose         models.Pose
	motionActive bool
	updatedAt    time.Time
}

// NewState creates the state with all joints at zero and the pose
// derived from the chain's home configuration.
func NewState(chain *kinematics.Chain) *State {
	pose, _ := chain.ForwardKinematics([models.JointCount]float64{})
	return &State{
		pose:      pose,
		updatedAt: time.Now(),
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() models.StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StateSnapshot{
		JointAngles:  s.angles,
		Pose:         s.pose,
		MotionActive: s.motionActive,
		UpdatedAt:    s.updatedAt.UnixMilli(),
	}
}

// Angles returns the current joint angles.
func (s *State) Angles() [models.JointCount]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.angles
}

func (s *State) set(angles [models.JointCount]float64, pose models.Pose, motionActive bool) {
	s.mu.Lock()
	s.angles = angles
	s.pose = pose
	s.motionActive = motionActive
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

func (s *State) setMotionActive(active bool) {
	s.mu.Lock()
	s.motionActive = active
	s.updatedAt = time.Now()
	s.mu.Unlock()
}
