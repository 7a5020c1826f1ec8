package clipboard

import "sync"

// Gate suspends the watcher while a paste injection mutates the
// clipboard. It is distinct from the history store's data lock: its
// only job is to stop the watcher from observing and reacting to the
// injector's own clipboard writes.
//
// Pause blocks until any in-flight tick or injection finishes, so at
// most one injection sequence runs at a time and the watcher never
// runs concurrently with one.
type Gate struct {
	mu sync.Mutex
}

// Pause acquires the gate. Concurrent injections serialize here.
func (g *Gate) Pause() { g.mu.Lock() }

// Resume releases the gate.
func (g *Gate) Resume() { g.mu.Unlock() }

// Run executes one watcher tick under the gate.
func (g *Gate) Run(tick func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tick()
}
