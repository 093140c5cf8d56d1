package motion

import (
	"errors"
	"math"
	"testing"

	"arm-control/models"
)

// collect drains a trajectory into a slice.
func collect(t *testing.T, traj *Trajectory) []models.TrajectorySample {
	t.Helper()
	var out []models.TrajectorySample
	for {
		s, ok := traj.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

// velocities estimates per-step velocity of one joint by finite differences.
func velocities(samples []models.TrajectorySample, joint int) []float64 {
	var v []float64
	for i := 1; i < len(samples); i++ {
		dt := samples[i].Time - samples[i-1].Time
		if dt <= 0 {
			continue
		}
		v = append(v, (samples[i].Angles[joint]-samples[i-1].Angles[joint])/dt)
	}
	return v
}

func TestSinusoidal(t *testing.T) {
	t.Run("Samples Follow The Sinusoid", func(t *testing.T) {
		traj, err := Sinusoidal([]int{2}, math.Pi/4, 2*math.Pi, 1.0, 0.1)
		if err != nil {
			t.Fatalf("Sinusoidal failed: %v", err)
		}
		samples := collect(t, traj)
		for _, s := range samples {
			want := (math.Pi / 4) * math.Sin(2*math.Pi*s.Time)
			if math.Abs(s.Angles[2]-want) > 1e-12 {
				t.Fatalf("angle(%f) = %f, want %f", s.Time, s.Angles[2], want)
			}
		}
		if last := samples[len(samples)-1]; last.Time != 1.0 {
			t.Errorf("Final sample at t=%f, want duration 1.0 inclusive", last.Time)
		}
	})

	t.Run("All Joints When None Selected", func(t *testing.T) {
		joints := []int{0, 1, 2, 3, 4, 5}
		traj, err := Sinusoidal(joints, 0.5, 1.0, 1.0, 0.1)
		if err != nil {
			t.Fatalf("Sinusoidal failed: %v", err)
		}
		s, _ := traj.Next()
		if len(s.Angles) != models.JointCount {
			t.Errorf("Expected %d joints per sample, got %d", models.JointCount, len(s.Angles))
		}
	})

	t.Run("One Shot", func(t *testing.T) {
		traj, _ := Sinusoidal([]int{0}, 1, 1, 0.5, 0.1)
		collect(t, traj)
		if _, ok := traj.Next(); ok {
			t.Error("Exhausted trajectory produced another sample")
		}
	})

	t.Run("Invalid Parameters", func(t *testing.T) {
		if _, err := Sinusoidal([]int{0}, 1, 0, 1, 0.1); !errors.Is(err, ErrInvalidProfileParameters) {
			t.Errorf("Zero frequency: got %v", err)
		}
		if _, err := Sinusoidal([]int{0}, 1, 1, -1, 0.1); !errors.Is(err, ErrInvalidProfileParameters) {
			t.Errorf("Negative duration: got %v", err)
		}
		if _, err := Sinusoidal([]int{9}, 1, 1, 1, 0.1); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Bad joint index: got %v", err)
		}
	})
}

func TestTrapezoidal(t *testing.T) {
	t.Run("Reference Move Duration And Target", func(t *testing.T) {
		// 0 -> 1 rad at 0.5 rad/s with 0.5 s ramps:
		// 0.5 (up) + 1.5 (cruise) + 0.5 (down) = 2.5 s total.
		traj, err := Trapezoidal(map[int]Move{0: {Start: 0, Target: 1}}, 0.5, 0.5, 0.01)
		if err != nil {
			t.Fatalf("Trapezoidal failed: %v", err)
		}
		if math.Abs(traj.Duration()-2.5) > 1e-9 {
			t.Errorf("Duration = %f, want 2.5", traj.Duration())
		}
		samples := collect(t, traj)
		last := samples[len(samples)-1]
		if last.Angles[0] != 1.0 {
			t.Errorf("Final angle = %f, want exactly 1.0", last.Angles[0])
		}
		if math.Abs(last.Time-2.5) > 1e-9 {
			t.Errorf("Final sample at t=%f, want 2.5", last.Time)
		}
	})

	t.Run("Velocity Continuity", func(t *testing.T) {
		traj, err := Trapezoidal(map[int]Move{1: {Start: -0.4, Target: 1.3}}, 0.8, 0.3, 0.005)
		if err != nil {
			t.Fatalf("Trapezoidal failed: %v", err)
		}
		samples := collect(t, traj)
		v := velocities(samples, 1)

		// Zero velocity at both ends.
		if math.Abs(v[0]) > 0.01 {
			t.Errorf("Initial velocity %f, want ~0", v[0])
		}
		if math.Abs(v[len(v)-1]) > 0.01 {
			t.Errorf("Final velocity %f, want ~0", v[len(v)-1])
		}

		// No velocity jump anywhere beyond one acceleration step.
		maxJump := (0.8 / 0.3) * 0.005 * 1.5
		for i := 1; i < len(v); i++ {
			if jump := math.Abs(v[i] - v[i-1]); jump > maxJump {
				t.Fatalf("Velocity jump %f at step %d exceeds %f", jump, i, maxJump)
			}
		}

		// Peak velocity never exceeds the requested maximum.
		for i, vi := range v {
			if math.Abs(vi) > 0.8+0.01 {
				t.Fatalf("Velocity %f at step %d exceeds maxVel", vi, i)
			}
		}
	})

	t.Run("Short Move Eliminates Cruise", func(t *testing.T) {
		// Full ramps at maxVel would cover 1.0 rad; the move is 0.4 rad.
		traj, err := Trapezoidal(map[int]Move{0: {Start: 0, Target: 0.4}}, 1.0, 1.0, 0.01)
		if err != nil {
			t.Fatalf("Trapezoidal failed: %v", err)
		}
		// Ramps meet at the midpoint: duration is exactly two ramp times.
		if math.Abs(traj.Duration()-2.0) > 1e-9 {
			t.Errorf("Duration = %f, want 2.0 (no cruise phase)", traj.Duration())
		}
		samples := collect(t, traj)
		last := samples[len(samples)-1]
		if last.Angles[0] != 0.4 {
			t.Errorf("Final angle = %f, want exactly 0.4", last.Angles[0])
		}
		// Midpoint of the move at the phase boundary.
		for _, s := range samples {
			if math.Abs(s.Time-1.0) < 1e-9 && math.Abs(s.Angles[0]-0.2) > 1e-9 {
				t.Errorf("Midpoint angle = %f, want 0.2", s.Angles[0])
			}
		}
		v := velocities(samples, 0)
		for i, vi := range v {
			if vi > 0.4+0.01 {
				t.Fatalf("Velocity %f at step %d exceeds reduced peak 0.4", vi, i)
			}
		}
	})

	t.Run("Negative Direction", func(t *testing.T) {
		traj, err := Trapezoidal(map[int]Move{3: {Start: 0.5, Target: -0.5}}, 0.5, 0.25, 0.01)
		if err != nil {
			t.Fatalf("Trapezoidal failed: %v", err)
		}
		samples := collect(t, traj)
		last := samples[len(samples)-1]
		if last.Angles[3] != -0.5 {
			t.Errorf("Final angle = %f, want exactly -0.5", last.Angles[3])
		}
		for i := 1; i < len(samples); i++ {
			if samples[i].Angles[3] > samples[i-1].Angles[3]+1e-12 {
				t.Fatal("Position not monotonically decreasing")
			}
		}
	})

	t.Run("Zero Distance", func(t *testing.T) {
		traj, err := Trapezoidal(map[int]Move{0: {Start: 0.7, Target: 0.7}}, 1, 0.5, 0.01)
		if err != nil {
			t.Fatalf("Trapezoidal failed: %v", err)
		}
		samples := collect(t, traj)
		if len(samples) != 1 {
			t.Fatalf("Expected single trivial sample, got %d", len(samples))
		}
		if samples[0].Angles[0] != 0.7 {
			t.Errorf("Trivial sample angle = %f, want 0.7", samples[0].Angles[0])
		}
	})

	t.Run("Multi Joint Shares Clock", func(t *testing.T) {
		traj, err := Trapezoidal(map[int]Move{
			0: {Start: 0, Target: 1.0},
			1: {Start: 0, Target: 0.1},
		}, 0.5, 0.5, 0.01)
		if err != nil {
			t.Fatalf("Trapezoidal failed: %v", err)
		}
		samples := collect(t, traj)
		last := samples[len(samples)-1]
		if last.Angles[0] != 1.0 || last.Angles[1] != 0.1 {
			t.Errorf("Final angles = %v, want both targets reached", last.Angles)
		}
		// The short joint holds its target while the long one finishes.
		mid := samples[len(samples)/2]
		if math.Abs(mid.Angles[1]-0.1) > 1e-9 {
			t.Errorf("Short joint at t=%f is %f, expected to hold 0.1", mid.Time, mid.Angles[1])
		}
	})

	t.Run("Invalid Parameters", func(t *testing.T) {
		moves := map[int]Move{0: {Start: 0, Target: 1}}
		if _, err := Trapezoidal(moves, 0, 0.5, 0.01); !errors.Is(err, ErrInvalidProfileParameters) {
			t.Errorf("Zero maxVel: got %v", err)
		}
		if _, err := Trapezoidal(moves, 0.5, -1, 0.01); !errors.Is(err, ErrInvalidProfileParameters) {
			t.Errorf("Negative accelTime: got %v", err)
		}
		if _, err := Trapezoidal(map[int]Move{7: {Start: 0, Target: 1}}, 0.5, 0.5, 0.01); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Bad joint index: got %v", err)
		}
		if _, err := Trapezoidal(map[int]Move{}, 0.5, 0.5, 0.01); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Empty targets: got %v", err)
		}
	})
}
