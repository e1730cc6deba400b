package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher replays offline scan batches through a fixed set of workers,
// hashing on the terminal id so scans from one terminal keep their order.
type Dispatcher struct {
	workers   []chan ports.ScanInput
	processor ports.ScanProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.ScanProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.ScanInput, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ScanInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends a scan to the worker responsible for its terminal.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(scan ports.ScanInput) {
	idx := d.shardIndex(scan.Capture.TerminalID)
	d.workers[idx] <- scan
	metrics.ScanQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues scans in the order given.
func (d *Dispatcher) EnqueueBatch(scans []ports.ScanInput) {
	for _, s := range scans {
		d.Enqueue(s)
	}
}

// shardIndex maps a terminal id deterministically to a worker index.
func (d *Dispatcher) shardIndex(terminalID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(terminalID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ScanInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case scan, ok := <-ch:
			if !ok {
				return
			}
			metrics.ScanQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			res, err := d.processor.Process(ctx, scan)
			if err != nil {
				metrics.ObserveScan("", err, time.Since(start))
				d.log.Error().Err(err).
					Str("scan_id", scan.Capture.ScanID).
					Str("terminal_id", scan.Capture.TerminalID).
					Int("worker_id", id).
					Msg("offline scan failed")
				continue
			}
			metrics.ObserveScan(res.Event.EventType, nil, time.Since(start))
		}
	}
}
