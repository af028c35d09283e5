package ai

import "github.com/go-gl/mathgl/mgl64"

// Memory is what an agent remembers about its target.
//
// LastKnown is only meaningful while HasLastKnown is set, and HasLastKnown is
// always set while WasSpotted is.
type Memory struct {
	LastKnown    mgl64.Vec3
	HasLastKnown bool
	WasSpotted   bool
}

// Refresh records the target's current position. Called only while visible.
func (m *Memory) Refresh(pos mgl64.Vec3) {
	m.LastKnown = pos
	m.HasLastKnown = true
	m.WasSpotted = true
}

// Forget ends the search. The position survives until the next Settle.
func (m *Memory) Forget() {
	m.WasSpotted = false
}

// Settle runs on ticks the memory was not refreshed and drops a position the
// agent has already given up on.
func (m *Memory) Settle() {
	if m.WasSpotted {
		return
	}
	m.LastKnown = mgl64.Vec3{}
	m.HasLastKnown = false
}

// Arrived reports whether pos is within ArrivalEpsilon of the last known position.
func (m Memory) Arrived(pos mgl64.Vec3) bool {
	return m.HasLastKnown && pos.Sub(m.LastKnown).Len() < ArrivalEpsilon
}

// Consistent reports whether the spotted flag is backed by a position.
func (m Memory) Consistent() bool {
	return !m.WasSpotted || m.HasLastKnown
}
