package conversation

import (
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

type guardKey struct {
	project domain.ProjectID
	surface domain.Surface
}

// busyGuard allows one in-flight send per project surface. A second send is
// rejected rather than queued. Idle entries are dropped on release, so deleted
// projects leave nothing behind.
type busyGuard struct {
	mu   sync.Mutex
	sems map[guardKey]*semaphore.Weighted
}

func newBusyGuard() *busyGuard {
	return &busyGuard{sems: make(map[guardKey]*semaphore.Weighted)}
}

// tryAcquire returns a release func, or false when the surface is busy.
func (g *busyGuard) tryAcquire(p domain.ProjectID, s domain.Surface) (func(), bool) {
	k := guardKey{project: p, surface: s}

	g.mu.Lock()
	defer g.mu.Unlock()
	sem, ok := g.sems[k]
	if !ok {
		sem = semaphore.NewWeighted(1)
		g.sems[k] = sem
	}
	if !sem.TryAcquire(1) {
		return nil, false
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			sem.Release(1)
			delete(g.sems, k)
		})
	}, true
}

func (g *busyGuard) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sems)
}
