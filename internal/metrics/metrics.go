package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the workflow counters exposed on /internal/metrics.
type Registry struct {
	OrdersCreated        Counter
	OrderNumberRetries   Counter
	TransitionsApplied   Counter
	TransitionsRejected  Counter
	TransitionConflicts  Counter
	TablesReleased       Counter
	NotificationsEmitted Counter
	PublishFailures      Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_created":         r.OrdersCreated.Load(),
		"order_number_retries":   r.OrderNumberRetries.Load(),
		"transitions_applied":    r.TransitionsApplied.Load(),
		"transitions_rejected":   r.TransitionsRejected.Load(),
		"transition_conflicts":   r.TransitionConflicts.Load(),
		"tables_released":        r.TablesReleased.Load(),
		"notifications_emitted":  r.NotificationsEmitted.Load(),
		"notification_pub_fails": r.PublishFailures.Load(),
	}
}
