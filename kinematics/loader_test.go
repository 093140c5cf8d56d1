package kinematics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("Empty Path Uses Built-In Chain", func(t *testing.T) {
		chain, err := Load("")
		if err != nil {
			t.Fatalf("Load with empty path failed: %v", err)
		}
		if got := len(chain.Joints()); got != 6 {
			t.Errorf("Expected 6 joints, got %d", got)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("Expected ErrConfiguration for missing file, got %v", err)
		}
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chain.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("Expected ErrConfiguration for malformed JSON, got %v", err)
		}
	})

	t.Run("Valid File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chain.json")
		content := `{"joints": [
			{"name": "j0", "index": 0, "axis": [0,0,1], "origin": {"xyz": [0,0,0.1], "rpy": [0,0,0]}, "limits": {"lower": -3.14, "upper": 3.14}},
			{"name": "j1", "index": 1, "axis": [0,1,0], "origin": {"xyz": [0,0,0.1], "rpy": [0,0,0]}, "limits": {"lower": -3.14, "upper": 3.14}},
			{"name": "j2", "index": 2, "axis": [0,1,0], "origin": {"xyz": [0,0,0.1], "rpy": [0,0,0]}, "limits": {"lower": -3.14, "upper": 3.14}},
			{"name": "j3", "index": 3, "axis": [0,1,0], "origin": {"xyz": [0,0,0.1], "rpy": [0,0,0]}, "limits": {"lower": -3.14, "upper": 3.14}},
			{"name": "j4", "index": 4, "axis": [0,0,1], "origin": {"xyz": [0,0,0.1], "rpy": [0,0,0]}, "limits": {"lower": -3.14, "upper": 3.14}},
			{"name": "j5", "index": 5, "axis": [0,1,0], "origin": {"xyz": [0,0,0.1], "rpy": [0,0,0]}, "limits": {"lower": -3.14, "upper": 3.14}}
		]}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		chain, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if chain.Joint(4).Name != "j4" {
			t.Errorf("Joint 4 name = %q, want j4", chain.Joint(4).Name)
		}
	})
}
