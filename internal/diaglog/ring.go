// Package diaglog keeps a bounded in-memory log of connection and gate events.
//
// The ring is read by the availability gate's diagnostic page. Entries are also
// written to zerolog and handed to optional Appenders (e.g. Redis) by a
// background goroutine, so a slow appender never delays a request.
package diaglog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCapacity is the number of entries kept when New is given capacity <= 0.
const DefaultCapacity = 100

// TimeFormat is the display format for entry timestamps (UTC, millisecond precision).
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Entry is a single diagnostic event.
type Entry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"msg"`
	IsError bool      `json:"isError"`
}

// Stamp formats Time with TimeFormat.
func (e Entry) Stamp() string {
	return e.Time.UTC().Format(TimeFormat)
}

// Appender receives every entry after it is stored in the ring.
// Appenders are called from a single goroutine, in ring order.
type Appender interface {
	Append(ctx context.Context, entry Entry) error
	Close() error
}

// queueSize bounds the entries waiting for the appenders. When it is full
// new entries are kept in the ring but not mirrored.
const queueSize = 256

type queued struct {
	entry Entry
	flush chan struct{} // non-nil for Flush markers
}

// Ring is a fixed-capacity FIFO buffer; the oldest entry is evicted first.
// Safe for concurrent use.
type Ring struct {
	mu     sync.Mutex
	buf    []Entry
	start  int // index of the oldest entry
	count  int
	now    func() time.Time
	closed bool

	appenders []Appender
	queue     chan queued
	done      chan struct{}
}

// New creates a ring holding at most capacity entries. With appenders it
// starts the goroutine that feeds them; Close stops it.
func New(capacity int, appenders ...Appender) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &Ring{
		buf:       make([]Entry, capacity),
		now:       time.Now,
		appenders: appenders,
	}
	if len(appenders) > 0 {
		r.queue = make(chan queued, queueSize)
		r.done = make(chan struct{})
		go r.run()
	}
	return r
}

// Capacity returns the maximum number of retained entries.
func (r *Ring) Capacity() int {
	return len(r.buf)
}

// Len returns the number of retained entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Add records an informational event.
func (r *Ring) Add(msg string) {
	r.Record(msg, false)
}

// AddError records a failure event.
func (r *Ring) AddError(msg string) {
	r.Record(msg, true)
}

// Record stores the event, logs it and queues it for the appenders.
// It never waits for an appender.
func (r *Ring) Record(msg string, isError bool) {
	entry := Entry{Time: r.now().UTC(), Message: msg, IsError: isError}

	r.mu.Lock()
	r.push(entry)
	// enqueue under mu so appenders see entries in ring order
	dropped := false
	if r.queue != nil && !r.closed {
		select {
		case r.queue <- queued{entry: entry}:
		default:
			dropped = true
		}
	}
	r.mu.Unlock()

	if isError {
		log.Error().Str("component", "db").Msg(msg)
	} else {
		log.Info().Str("component", "db").Msg(msg)
	}
	if dropped {
		log.Warn().Str("msg", msg).Msg("diagnostics queue full, entry not mirrored")
	}
}

func (r *Ring) run() {
	defer close(r.done)
	for q := range r.queue {
		if q.flush != nil {
			close(q.flush)
			continue
		}
		for _, a := range r.appenders {
			if err := a.Append(context.Background(), q.entry); err != nil {
				log.Warn().Err(err).Msg("diagnostics appender failed")
			}
		}
	}
}

// Flush blocks until every entry recorded before the call has been handed
// to the appenders.
func (r *Ring) Flush() {
	r.mu.Lock()
	if r.queue == nil || r.closed {
		r.mu.Unlock()
		return
	}
	marker := make(chan struct{})
	r.queue <- queued{flush: marker}
	r.mu.Unlock()
	<-marker
}

// push must be called with mu held.
func (r *Ring) push(e Entry) {
	capacity := len(r.buf)
	if r.count < capacity {
		r.buf[(r.start+r.count)%capacity] = e
		r.count++
		return
	}
	r.buf[r.start] = e
	r.start = (r.start + 1) % capacity
}

// Restore loads previously persisted entries (oldest first) without
// forwarding them to the appenders again.
func (r *Ring) Restore(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.push(e)
	}
}

// Snapshot returns a copy of the retained entries, oldest first.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Close drains the queue, then closes all appenders and returns the first
// error. Entries recorded after Close stay in the ring only.
func (r *Ring) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	if r.queue != nil {
		close(r.queue)
	}
	r.mu.Unlock()

	if r.done != nil {
		<-r.done
	}

	var firstErr error
	for _, a := range r.appenders {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
