package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/models"
)

// FetchFunc pulls one snapshot from a rate source. Pure read, no retry
// policy of its own beyond what the HTTP layer does.
type FetchFunc func(ctx context.Context) (*models.Snapshot, error)

// Cache wraps one rate source with a fixed-interval refresh loop and holds
// the latest snapshot. A failed cycle keeps the previous snapshot
// (stale-but-available) and the loop keeps ticking; a successful cycle
// replaces the snapshot wholesale. Ticks never overlap: the loop goroutine
// completes each fetch before waiting for the next tick.
type Cache struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fetch    FetchFunc
	onUpdate func(prev, next *models.Snapshot)

	mu      sync.Mutex
	latest  *models.Snapshot
	lastErr error
	loading bool
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func New(name string, interval time.Duration, fetch FetchFunc) *Cache {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Cache{
		name:     name,
		interval: interval,
		timeout:  30 * time.Second,
		fetch:    fetch,
	}
}

// OnUpdate registers a callback invoked after every successful cycle with
// the superseded and the new snapshot. Must be set before Start.
func (c *Cache) OnUpdate(fn func(prev, next *models.Snapshot)) {
	c.onUpdate = fn
}

// Start launches the refresh loop. The first tick fires immediately, not
// after the first interval.
func (c *Cache) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		fmt.Printf("[POLLER:%s] Already running\n", c.name)
		return
	}
	c.running = true
	c.loading = true
	c.stopCh = make(chan struct{})
	c.done = make(chan struct{})
	stopCh, done := c.stopCh, c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.tick()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()

	fmt.Printf("[POLLER:%s] Started (every %s)\n", c.name, c.interval)
}

// Stop cancels the loop and waits for any in-flight tick to finish, so no
// late callback fires after Stop returns.
func (c *Cache) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopCh)
	done := c.done
	c.mu.Unlock()

	<-done
	fmt.Printf("[POLLER:%s] Stopped\n", c.name)
}

func (c *Cache) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	snap, err := c.fetch(ctx)

	c.mu.Lock()
	prev := c.latest
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		fmt.Printf("[POLLER:%s] Fetch failed, keeping previous snapshot: %v\n", c.name, err)
		return
	}
	c.latest = snap
	c.lastErr = nil
	onUpdate := c.onUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate(prev, snap)
	}
}

// Latest returns the most recent snapshot, or nil before the first
// successful cycle.
func (c *Cache) Latest() *models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// Loading reports whether the first cycle has not completed yet.
func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastErr returns the error from the most recent cycle, nil after a
// successful one. A non-nil value with a non-nil Latest means the held
// snapshot is stale.
func (c *Cache) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Running reports whether the loop is active.
func (c *Cache) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
