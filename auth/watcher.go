package auth

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Idle-timeout policy.
const (
	// PollInterval is how often the watcher checks idle time.
	PollInterval = 60 * time.Second
	// WarnAfter is the idle duration after which a single warning is
	// emitted. The poll granularity makes the effective window
	// WarnAfter..WarnAfter+1m.
	WarnAfter = 25 * time.Minute
	// ExpireAfter is the idle ceiling; reaching it signs the user out.
	ExpireAfter = 30 * time.Minute
)

// Watcher signs an idle session out. Touch marks user activity; after
// WarnAfter of inactivity OnWarn fires once, and at ExpireAfter OnExpire
// fires and the watcher stops.
type Watcher struct {
	OnWarn   func(left time.Duration)
	OnExpire func()

	log  *zap.SugaredLogger
	now  func() time.Time
	tick <-chan time.Time

	mu       sync.Mutex
	lastSeen time.Time
	warned   bool
	stop     chan struct{}
	stopped  bool
}

// NewWatcher creates a watcher using the wall clock and a PollInterval
// ticker. Run must be called to start it.
func NewWatcher(log *zap.SugaredLogger) *Watcher {
	t := time.NewTicker(PollInterval)
	w := newWatcher(log, time.Now, t.C)
	go func() {
		<-w.stop
		t.Stop()
	}()
	return w
}

// newWatcher wires an explicit clock and tick source, for tests.
func newWatcher(log *zap.SugaredLogger, now func() time.Time, tick <-chan time.Time) *Watcher {
	return &Watcher{
		log:      log,
		now:      now,
		tick:     tick,
		lastSeen: now(),
		stop:     make(chan struct{}),
	}
}

// Touch records user activity, resetting the idle clock and re-arming
// the warning.
func (w *Watcher) Touch() {
	w.mu.Lock()
	w.lastSeen = w.now()
	w.warned = false
	w.mu.Unlock()
}

// Run blocks, checking idle time at every tick until Stop is called or
// the session expires.
func (w *Watcher) Run() {
	for {
		select {
		case <-w.stop:
			return
		case <-w.tick:
			if w.check() {
				w.Stop()
				return
			}
		}
	}
}

// check evaluates the idle time once. It reports expiry.
func (w *Watcher) check() bool {
	w.mu.Lock()
	idle := w.now().Sub(w.lastSeen)
	warn := idle >= WarnAfter && idle < ExpireAfter && !w.warned
	if warn {
		w.warned = true
	}
	w.mu.Unlock()

	if idle >= ExpireAfter {
		w.log.Infow("session idle limit reached, signing out", "idle", idle)
		if w.OnExpire != nil {
			w.OnExpire()
		}
		return true
	}
	if warn {
		left := ExpireAfter - idle
		w.log.Infow("session idle warning", "idle", idle, "left", left)
		if w.OnWarn != nil {
			w.OnWarn(left)
		}
	}
	return false
}

// Stop tears the watcher down, used on sign-out.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.stopped = true
		close(w.stop)
	}
}
