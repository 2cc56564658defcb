package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/adminhub/access-control/internal/api/metrics"
	"github.com/adminhub/access-control/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher rebuilds cached permission matrices in the background. User
// ids are sharded with a hash so repeated jobs for one user run in order on
// the same worker.
type Dispatcher struct {
	workers []chan string
	warmer  ports.PermissionWarmer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, warmer ports.PermissionWarmer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		warmer:  warmer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue never blocks: when the worker's buffer is full the job is dropped
// and the entry is rebuilt lazily on the next check instead.
func (d *Dispatcher) Enqueue(userID string) {
	idx := d.shardIndex(userID)
	// Counted before the send so the worker's Dec never runs first.
	depth := metrics.WarmupQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- userID:
	default:
		depth.Dec()
		d.log.Warn().Str("user_id", userID).Int("worker_id", idx).Msg("warm-up queue full, job dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	depth := metrics.WarmupQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case userID, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.warmer.Warm(ctx, userID); err != nil {
				d.log.Error().Err(err).
					Str("user_id", userID).
					Int("worker_id", id).
					Msg("permission warm-up failed")
			}
		}
	}
}
