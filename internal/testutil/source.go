// Package testutil provides deterministic collaborators shared by package tests.
package testutil

import "sync"

// ScriptedSource is a dice.Source that replays fixed values.
//
// Ints are consumed by Intn in order; each value is reduced modulo n so a
// script never produces an out-of-range draw. Floats are consumed by Float64
// in order. When a script runs out, Intn returns 0 and Float64 returns 0.
type ScriptedSource struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
}

// NewScriptedSource returns a ScriptedSource that replays ints for Intn.
func NewScriptedSource(ints ...int) *ScriptedSource {
	return &ScriptedSource{ints: ints}
}

// WithFloats appends values to be returned by Float64.
func (s *ScriptedSource) WithFloats(floats ...float64) *ScriptedSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, floats...)
	return s
}

// Faces is a convenience for pool rolls: it converts die faces in [1, 10]
// into the Intn values that produce them.
func Faces(faces ...int) []int {
	out := make([]int, len(faces))
	for i, f := range faces {
		out[i] = f - 1
	}
	return out
}

// Intn returns the next scripted int modulo n.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return ((v % n) + n) % n
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// Remaining reports how many ints and floats have not been consumed yet.
func (s *ScriptedSource) Remaining() (ints, floats int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ints), len(s.floats)
}
