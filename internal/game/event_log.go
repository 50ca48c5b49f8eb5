package game

import (
	"bufio"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventRingSize       = 1024                   // Records kept in memory for replay
	MaxRecordsPerSec    = 5000                   // Global rate limit
	MaxRecordsPerSource = 200                    // Per-source rate limit per second
	FlushBatchSize      = 64                     // Records per batch write
	FlushInterval       = 100 * time.Millisecond // How often to flush
	SourceIdleTimeout   = 5 * time.Minute        // Idle source limiters are dropped after this
)

// EventLog is a bounded, rate-limited JSONL sink for event records.
// The newest EventRingSize records stay available through Recent.
type EventLog struct {
	mu      sync.Mutex
	ring    [EventRingSize]Record
	next    uint64 // sequence of the next record
	pending []Record

	global  *rate.Limiter
	sources map[string]*sourceLimiter

	file    *os.File
	stop    chan struct{}
	done    sync.WaitGroup
	once    sync.Once
	running atomic.Bool

	dropped atomic.Uint64
	total   atomic.Uint64
}

type sourceLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewEventLog creates an idle event log
func NewEventLog() *EventLog {
	return &EventLog{
		global:  rate.NewLimiter(MaxRecordsPerSec, MaxRecordsPerSec/10),
		sources: make(map[string]*sourceLimiter),
		stop:    make(chan struct{}),
	}
}

// Start begins flushing to path. An empty path keeps records in memory only.
func (el *EventLog) Start(path string) error {
	if el.running.Load() {
		return nil
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = f
	}
	el.running.Store(true)
	el.done.Add(1)
	go el.flushLoop()
	return nil
}

// Stop flushes what is pending and closes the file.
func (el *EventLog) Stop() {
	el.once.Do(func() {
		el.running.Store(false)
		close(el.stop)
		el.done.Wait()
		el.flush()
		if el.file != nil {
			el.file.Close()
		}
	})
}

// Append stores a record. Returns false when rate limited.
func (el *EventLog) Append(r Record) bool {
	el.total.Add(1)
	if !el.global.Allow() {
		el.dropped.Add(1)
		return false
	}

	el.mu.Lock()
	defer el.mu.Unlock()

	if r.Source != "" && !el.limiterFor(r.Source).Allow() {
		el.dropped.Add(1)
		return false
	}

	r.Sequence = el.next
	el.ring[el.next%EventRingSize] = r
	el.next++
	if el.running.Load() && el.file != nil {
		el.pending = append(el.pending, r)
		if len(el.pending) > EventRingSize {
			// writer fell behind; keep the newest window
			el.dropped.Add(uint64(len(el.pending) - EventRingSize))
			el.pending = el.pending[len(el.pending)-EventRingSize:]
		}
	}
	return true
}

// limiterFor returns the limiter for one source. Caller holds mu.
func (el *EventLog) limiterFor(src string) *rate.Limiter {
	now := time.Now()
	s, ok := el.sources[src]
	if !ok {
		s = &sourceLimiter{limiter: rate.NewLimiter(MaxRecordsPerSource, MaxRecordsPerSource/4)}
		el.sources[src] = s
	}
	s.lastSeen = now
	return s.limiter
}

// Recent returns up to n of the newest records, oldest first.
func (el *EventLog) Recent(n int) []Record {
	el.mu.Lock()
	defer el.mu.Unlock()

	avail := el.next
	if avail > EventRingSize {
		avail = EventRingSize
	}
	if n <= 0 || uint64(n) > avail {
		n = int(avail)
	}
	out := make([]Record, 0, n)
	for seq := el.next - uint64(n); seq < el.next; seq++ {
		out = append(out, el.ring[seq%EventRingSize])
	}
	return out
}

func (el *EventLog) flushLoop() {
	defer el.done.Done()
	flush := time.NewTicker(FlushInterval)
	defer flush.Stop()
	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-el.stop:
			return
		case <-flush.C:
			el.flush()
		case <-sweep.C:
			el.dropIdleSources()
		}
	}
}

func (el *EventLog) flush() {
	el.mu.Lock()
	batch := el.pending
	el.pending = nil
	el.mu.Unlock()

	if len(batch) == 0 || el.file == nil {
		return
	}
	w := bufio.NewWriter(el.file)
	for i, r := range batch {
		if data := EncodeRecord(r); data != nil {
			w.Write(data)
			w.WriteByte('\n')
		}
		if (i+1)%FlushBatchSize == 0 {
			w.Flush()
		}
	}
	w.Flush()
}

func (el *EventLog) dropIdleSources() {
	cutoff := time.Now().Add(-SourceIdleTimeout)
	el.mu.Lock()
	defer el.mu.Unlock()
	for k, s := range el.sources {
		if s.lastSeen.Before(cutoff) {
			delete(el.sources, k)
		}
	}
}

// Stats returns total and dropped record counts
func (el *EventLog) Stats() (total, dropped uint64) {
	return el.total.Load(), el.dropped.Load()
}
