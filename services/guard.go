package services

import "sync"

// Guard is the single writer lock shared by every component. Each externally
// callable mutating operation holds it for its whole body, so a call sees a
// consistent prior state and either fully commits or fully fails. Internal
// cross-component calls run under the caller's guard and use the unexported
// unlocked methods; they must never re-enter a public entry point.
type Guard struct {
	mu sync.Mutex
}

func (g *Guard) Enter() { g.mu.Lock() }
func (g *Guard) Exit()  { g.mu.Unlock() }
