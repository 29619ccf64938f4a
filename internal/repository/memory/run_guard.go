package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// RunGuard tracks sessions currently being processed in this instance so
// a queued message cannot start a second run of the same session.
type RunGuard struct {
	cache *cache.Cache
}

func NewRunGuard() *RunGuard {
	// Entries expire after an hour in case a run dies without releasing,
	// purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &RunGuard{
		cache: c,
	}
}

// TryAcquire marks the session as running. Returns false when a run is
// already in flight.
func (g *RunGuard) TryAcquire(sessionId uuid.UUID) bool {
	err := g.cache.Add(sessionId.String(), struct{}{}, cache.DefaultExpiration)
	return err == nil
}

func (g *RunGuard) Release(sessionId uuid.UUID) {
	g.cache.Delete(sessionId.String())
}

func (g *RunGuard) IsRunning(sessionId uuid.UUID) bool {
	_, found := g.cache.Get(sessionId.String())
	return found
}
