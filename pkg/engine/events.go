package engine

import (
	"slices"
	"sync"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

// EventType names an engine event.
type EventType string

// Events emitted by the engine.
const (
	EventLayoutStarted      EventType = "layout:started"
	EventLayoutCompleted    EventType = "layout:completed"
	EventLayoutFailed       EventType = "layout:failed"
	EventNodePositionUpdate EventType = "node:position:update"
	EventEdgePathUpdate     EventType = "edge:path:update"
)

// Event is delivered to listeners. Which fields are set depends on Type:
//
//   - layout:started: Config
//   - layout:completed: Result
//   - layout:failed: Err
//   - node:position:update: NodeID, Position, Animated
//   - edge:path:update: EdgeID, Path
type Event struct {
	Type     EventType
	Config   *layout.Config
	Result   *layout.Result
	Err      error
	NodeID   string
	Position layout.Position
	Animated bool
	EdgeID   string
	Path     []layout.Position
}

// Listener receives events synchronously on the goroutine running the
// operation. Listeners must not call back into the engine's layout
// operations.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// emitter fans events out to listeners registered per type.
type emitter struct {
	mu     sync.RWMutex
	nextID int
	subs   map[EventType][]subscription
}

func (em *emitter) on(t EventType, fn Listener) func() {
	em.mu.Lock()
	defer em.mu.Unlock()
	if em.subs == nil {
		em.subs = make(map[EventType][]subscription)
	}
	em.nextID++
	id := em.nextID
	em.subs[t] = append(em.subs[t], subscription{id: id, fn: fn})

	return func() {
		em.mu.Lock()
		defer em.mu.Unlock()
		subs := em.subs[t]
		for i, s := range subs {
			if s.id == id {
				em.subs[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (em *emitter) emit(ev Event) {
	em.mu.RLock()
	subs := em.subs[ev.Type]
	em.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

// emitPositions sends one node update per node in graph order, then one
// path update per edge path.
func (em *emitter) emitPositions(ids []string, r *layout.Result) {
	for _, id := range ids {
		p, ok := r.NodePositions[id]
		if !ok {
			continue
		}
		em.emit(Event{Type: EventNodePositionUpdate, NodeID: id, Position: p, Animated: r.Config.Animated})
	}
	if len(r.EdgePaths) == 0 {
		return
	}
	keys := make([]string, 0, len(r.EdgePaths))
	for k := range r.EdgePaths {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		em.emit(Event{Type: EventEdgePathUpdate, EdgeID: k, Path: r.EdgePaths[k]})
	}
}
