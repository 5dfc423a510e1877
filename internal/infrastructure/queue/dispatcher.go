package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// LastLoginStore persists sign-in stamps.
type LastLoginStore interface {
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// Dispatcher writes last-login stamps off the request path. Events are
// sharded by user ID so stamps for one account are applied in order.
type Dispatcher struct {
	workers []chan ports.LoginEvent
	store   LastLoginStore
	log     zerolog.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store LastLoginStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.LoginEvent, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.LoginEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their queues and exit after Close.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record queues a stamp. A full queue drops the stamp rather than stall sign-in.
func (d *Dispatcher) Record(event ports.LoginEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.workers[d.shardIndex(event.UserID)] <- event:
	default:
		d.log.Warn().Str("user_id", event.UserID).Msg("last-login queue full, stamp dropped")
	}
}

// Close stops accepting events and waits until queued stamps are written or ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.LoginEvent) {
	defer d.wg.Done()
	for event := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.store.TouchLastLogin(ctx, event.UserID, event.At); err != nil {
			d.log.Error().Err(err).
				Str("user_id", event.UserID).
				Int("worker_id", id).
				Msg("last-login update failed")
		}
		cancel()
	}
}
