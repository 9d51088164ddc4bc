// Package serve exposes the most recent generated document over local HTTP
// and keeps it fresh on a timer.
package serve

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/clashgen-go/internal/generate"
)

// minInterval is the floor for the refresh cadence; hammering a
// subscription endpoint faster than this buys nothing.
const minInterval = 10 * time.Second

// Snapshot is one complete, immutable generation result. Readers always see
// a whole snapshot or none; there is no partial state.
type Snapshot struct {
	YAML    []byte
	Count   int
	Updated time.Time
}

// Refresher re-runs the generation pipeline on a schedule and publishes the
// newest successful result. A failed refresh only records the error; the
// previously published snapshot keeps serving.
type Refresher struct {
	url string
	opt generate.Options

	latest atomic.Pointer[Snapshot]

	mu      sync.Mutex
	lastErr string

	cron *cron.Cron
}

func NewRefresher(url string, opt generate.Options, interval time.Duration) (*Refresher, error) {
	if interval < minInterval {
		interval = minInterval
	}

	r := &Refresher{url: url, opt: opt, cron: cron.New()}
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", interval), r.RefreshNow); err != nil {
		return nil, err
	}
	return r, nil
}

// Start performs the first refresh in the background and begins the
// periodic schedule.
func (r *Refresher) Start() {
	go r.RefreshNow()
	r.cron.Start()
}

// Stop halts the schedule. In-flight refreshes finish on their own.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

// RefreshNow runs one generation cycle and publishes the result. The
// snapshot swap is a single pointer store; concurrent readers get either
// the previous complete snapshot or the new one.
func (r *Refresher) RefreshNow() {
	res, err := generate.FromURL(context.Background(), r.url, r.opt)
	if err != nil {
		logrus.Warnln("[serve] refresh failed:", err)
		r.mu.Lock()
		r.lastErr = err.Error()
		r.mu.Unlock()
		metricsIncRefresh(false)
		return
	}

	r.latest.Store(&Snapshot{
		YAML:    res.YAML,
		Count:   res.Count,
		Updated: time.Now(),
	})
	r.mu.Lock()
	r.lastErr = ""
	r.mu.Unlock()
	metricsIncRefresh(true)
	logrus.Infof("[serve] refreshed: %d nodes", res.Count)
}

// Latest returns the newest successful snapshot (nil before the first
// success) and the error text of the most recent failed refresh.
func (r *Refresher) Latest() (*Snapshot, string) {
	r.mu.Lock()
	lastErr := r.lastErr
	r.mu.Unlock()
	return r.latest.Load(), lastErr
}
