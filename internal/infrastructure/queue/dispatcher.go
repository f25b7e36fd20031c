package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

const (
	defaultWorkers      = 2
	channelBuffer       = 64
	defaultWriteTimeout = 5 * time.Second
)

// ErrStopped is returned by Record after Stop.
var ErrStopped = errors.New("audit dispatcher stopped")

// Dispatcher hands session events to a fixed set of workers that write them
// to the underlying auditor. Events of one app and user always land on the
// same worker, so their order is kept.
type Dispatcher struct {
	workers      []chan *domain.SessionEvent
	sink         ports.SessionAuditor
	log          zerolog.Logger
	writeTimeout time.Duration

	mu       sync.Mutex
	stopped  bool
	quit     chan struct{}
	drained  chan struct{}
	stopOnce sync.Once
	pending  sync.WaitGroup
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.SessionAuditor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:      make([]chan *domain.SessionEvent, numWorkers),
		sink:         sink,
		log:          log.With().Str("component", "audit").Logger(),
		writeTimeout: defaultWriteTimeout,
		quit:         make(chan struct{}),
		drained:      make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their queues and exit after Stop.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record queues ev and returns. It blocks only while the worker's buffer is
// full, and gives up when ctx is done or the dispatcher stops.
func (d *Dispatcher) Record(ctx context.Context, ev *domain.SessionEvent) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.pending.Add(1)
	d.mu.Unlock()
	defer d.pending.Done()

	ch := d.workers[d.shardIndex(ev)]
	select {
	case ch <- ev:
		return nil
	default:
	}
	select {
	case ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.quit:
		return ErrStopped
	}
}

// Stop refuses new events and waits until the queued ones are written or
// ctx is done. Workers keep draining in the background after a timeout.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.quit)
		d.mu.Unlock()

		go func() {
			// No sender is left once pending is done, so closing is safe.
			d.pending.Wait()
			for _, ch := range d.workers {
				close(ch)
			}
			d.wg.Wait()
			close(d.drained)
		}()
	})

	select {
	case <-d.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) shardIndex(ev *domain.SessionEvent) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ev.App))
	_, _ = h.Write([]byte(strconv.FormatInt(ev.UserID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan *domain.SessionEvent) {
	defer d.wg.Done()
	for ev := range ch {
		d.write(id, ev)
	}
}

func (d *Dispatcher) write(id int, ev *domain.SessionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
	defer cancel()
	if err := d.sink.Record(ctx, ev); err != nil {
		d.log.Error().Err(err).
			Str("event_id", ev.ID).
			Str("to", string(ev.To)).
			Int("worker_id", id).
			Msg("session event not recorded")
	}
}
