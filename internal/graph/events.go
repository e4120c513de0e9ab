package graph

// Op is the kind of change a notification reports.
type Op string

const (
	OpAdded   Op = "added"
	OpRemoved Op = "removed"
	OpUpdated Op = "updated"
	OpReset   Op = "reset"
)

// Change is emitted after each atomic mutation. IDs is empty for OpReset.
type Change struct {
	Op  Op       `json:"op"`
	IDs []string `json:"ids,omitempty"`
}

// Listener receives change notifications from a Model. Callbacks run on the
// mutating goroutine and must not mutate the model.
type Listener interface {
	OnBlocksChanged(Change)
	OnConnectionsChanged(Change)
}

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped.
type ListenerFuncs struct {
	Blocks      func(Change)
	Connections func(Change)
}

func (f ListenerFuncs) OnBlocksChanged(c Change) {
	if f.Blocks != nil {
		f.Blocks(c)
	}
}

func (f ListenerFuncs) OnConnectionsChanged(c Change) {
	if f.Connections != nil {
		f.Connections(c)
	}
}

// Subscribe registers l and returns a function that removes it.
func (m *Model) Subscribe(l Listener) func() {
	m.nextListener++
	id := m.nextListener
	m.listeners = append(m.listeners, listenerEntry{id: id, l: l})
	return func() {
		for i, e := range m.listeners {
			if e.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

type listenerEntry struct {
	id int
	l  Listener
}

func (m *Model) emitBlocks(op Op, ids ...string) {
	c := Change{Op: op, IDs: ids}
	for _, e := range m.listeners {
		e.l.OnBlocksChanged(c)
	}
}

func (m *Model) emitConnections(op Op, ids ...string) {
	c := Change{Op: op, IDs: ids}
	for _, e := range m.listeners {
		e.l.OnConnectionsChanged(c)
	}
}
