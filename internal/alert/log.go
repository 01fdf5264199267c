// Package alert keeps the bounded in-memory log of monitoring alerts raised
// by the health engine. The log holds at most 100 entries; once full, the
// oldest entry is dropped for each new one (FIFO, no other eviction policy).
package alert

import (
	"sync"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/monitor"
	"github.com/trafficwarden/trafficwarden/pkg/ringbuf"
)

// Capacity is the maximum number of alerts retained.
const Capacity = 100

// Alert records one threshold crossing: which endpoint failed, in what state,
// and whether a failover target was available at the time.
type Alert struct {
	ID                  int
	Timestamp           time.Time
	Endpoint            string
	State               monitor.HealthState
	ConsecutiveFailures int
	LastError           string
	FailoverSucceeded   bool
}

// Log is the bounded alert history. Safe for concurrent use.
type Log struct {
	mu     sync.Mutex
	buf    *ringbuf.Buffer[Alert]
	nextID int
}

// NewLog creates an empty alert log with the standard capacity.
func NewLog() *Log {
	return &Log{buf: ringbuf.New[Alert](Capacity)}
}

// Append stores a and assigns it the next monotonic ID, evicting the oldest
// alert when the log is full. The stored alert is returned.
func (l *Log) Append(a Alert) Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	a.ID = l.nextID
	l.buf.Push(a)
	return a
}

// Recent returns the newest n alerts, oldest first. A non-positive n returns
// nothing; callers pick their own default.
func (l *Log) Recent(n int) []Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buf.Last(n)
}

// All returns every retained alert, oldest first.
func (l *Log) All() []Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buf.Items()
}

// CountSince returns the number of retained alerts with a timestamp at or
// after t.
func (l *Log) CountSince(t time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, a := range l.buf.Items() {
		if !a.Timestamp.Before(t) {
			count++
		}
	}
	return count
}

// Len returns the number of retained alerts.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buf.Len()
}

// Reset drops all alerts and restarts ID assignment.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Clear()
	l.nextID = 0
}
