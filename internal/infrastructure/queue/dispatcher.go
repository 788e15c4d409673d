package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/api/metrics"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes write-behind mirror jobs to a fixed set of workers using
// consistent hashing on the collection key, guaranteeing per-collection write
// ordering. Mirror writes are best-effort; failures are logged and dropped.
type Dispatcher struct {
	workers []chan ports.MirrorJob
	mirror  ports.CacheMirror
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mirror ports.CacheMirror, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MirrorJob, numWorkers),
		mirror:  mirror,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MirrorJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its collection. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.MirrorJob) {
	i := d.shardIndex(string(job.Collection))
	d.workers[i] <- job
	metrics.MirrorQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueAll enqueues multiple jobs preserving per-collection ordering.
func (d *Dispatcher) EnqueueAll(jobs []ports.MirrorJob) {
	for _, j := range jobs {
		d.Enqueue(j)
	}
}

// shardIndex maps a collection key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MirrorJob) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mirror.WriteCollection(ctx, job.Collection, job.Data); err != nil {
				metrics.MirrorWritesTotal.WithLabelValues("failure").Inc()
				d.log.Warn().Err(err).
					Str("collection", string(job.Collection)).
					Int("worker_id", id).
					Msg("mirror write failed")
			} else {
				metrics.MirrorWritesTotal.WithLabelValues("success").Inc()
			}
			metrics.MirrorQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		}
	}
}
