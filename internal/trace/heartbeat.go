package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a tool-scope event at a fixed interval. Each beat carries
// the number of spans still open, so a check that stops making progress
// shows up as beats with a constant non-zero count and no span ends.
type Heartbeat struct {
	tracer Tracer
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// StartHeartbeat launches the heartbeat goroutine. It returns nil when the
// tracer is disabled or interval is not positive; Stop accepts nil.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: tracer, done: make(chan struct{})}
	h.wg.Add(1)
	go h.run(interval)
	return h
}

func (h *Heartbeat) run(interval time.Duration) {
	defer h.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-h.done:
			return
		case now := <-ticker.C:
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeTool,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d open=%d", beat, OpenSpans()),
			})
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.wg.Wait()
}
