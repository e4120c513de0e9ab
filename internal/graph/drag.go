package graph

// DragState is the transient state of a drag-to-connect gesture. The zero
// value is the idle state.
type DragState struct {
	Active          bool
	SourceBlockID   string
	SourcePointKind PointKind
	CurrentPosition Point
}

// Drag returns the current gesture state.
func (m *Model) Drag() DragState { return m.drag }

// StartConnection begins a drag from the kind point of blockID. Starting while
// a drag is active restarts it.
func (m *Model) StartConnection(blockID string, kind PointKind) bool {
	b, ok := m.blocks[blockID]
	if !ok {
		m.drag = DragState{}
		return false
	}
	m.drag = DragState{
		Active:          true,
		SourceBlockID:   blockID,
		SourcePointKind: kind,
		CurrentPosition: b.PointOf(kind),
	}
	return true
}

// UpdateConnectionDrag records the pointer position of an active drag.
func (m *Model) UpdateConnectionDrag(p Point) bool {
	if !m.drag.Active {
		return false
	}
	m.drag.CurrentPosition = p
	return true
}

// CancelConnection abandons the current drag.
func (m *Model) CancelConnection() { m.drag = DragState{} }

// EndConnection finishes the drag at release. The nearest point of the
// opposite kind on another block wins if it lies strictly within the
// threshold; the connection always runs from the output side to the input
// side. It reports false when nothing was created, including when the pair is
// already connected or release is not a finite point. The drag is idle
// afterwards in every case.
func (m *Model) EndConnection(release Point) (Connection, bool) {
	drag := m.drag
	m.drag = DragState{}
	if !drag.Active || !release.finite() {
		return Connection{}, false
	}
	if _, ok := m.blocks[drag.SourceBlockID]; !ok {
		return Connection{}, false
	}

	best, ok := m.nearest(drag.SourceBlockID, drag.SourcePointKind.Opposite(), release)
	if !ok || !(best.distance < m.threshold) {
		return Connection{}, false
	}

	if drag.SourcePointKind == Output {
		return m.AddConnection(drag.SourceBlockID, best.blockID)
	}
	return m.AddConnection(best.blockID, drag.SourceBlockID)
}

type candidate struct {
	blockID  string
	distance float64
}

// nearest finds the closest point of kind want on any block other than
// exclude. Points of the source's own kind are never candidates. Equal
// distances resolve to the lowest block id so the result does not depend on
// insertion order.
func (m *Model) nearest(exclude string, want PointKind, at Point) (candidate, bool) {
	var best candidate
	found := false
	for _, id := range m.order {
		if id == exclude {
			continue
		}
		d := at.Distance(m.blocks[id].PointOf(want))
		if !found || d < best.distance || (d == best.distance && id < best.blockID) {
			best = candidate{blockID: id, distance: d}
			found = true
		}
	}
	return best, found
}
