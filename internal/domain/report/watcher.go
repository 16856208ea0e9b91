package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// RefreshObserver is told the outcome of every scheduled refresh.
type RefreshObserver interface {
	ObserveRefresh(err error)
}

type WatcherOption func(*Watcher)

func WithWatcherLogger(l zerolog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

func WithRefreshObserver(o RefreshObserver) WatcherOption {
	return func(w *Watcher) { w.observer = o }
}

// WithRefreshTimeout bounds a single refresh.
func WithRefreshTimeout(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.timeout = d }
}

// WithSnapshotHandler receives the snapshot after each refresh.
func WithSnapshotHandler(fn func(Snapshot)) WatcherOption {
	return func(w *Watcher) { w.onSnapshot = fn }
}

// Watcher refreshes a dashboard on a fixed interval and logs the KPIs.
type Watcher struct {
	dash       *Dashboard
	filters    Filters
	interval   time.Duration
	timeout    time.Duration
	logger     zerolog.Logger
	observer   RefreshObserver
	onSnapshot func(Snapshot)
	now        func() time.Time

	mu     sync.Mutex
	loaded bool
	sched  *gocron.Scheduler
}

func NewWatcher(dash *Dashboard, filters Filters, interval time.Duration, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dash:     dash,
		filters:  filters,
		interval: interval,
		timeout:  30 * time.Second,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// RefreshOnce loads the dashboard the first time and refetches it after
// that, then waits for every query and reports the outcome.
func (w *Watcher) RefreshOnce(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	w.mu.Lock()
	first := !w.loaded
	w.loaded = true
	w.mu.Unlock()

	if first {
		w.dash.Load(ctx, w.filters)
	} else {
		w.dash.Refresh(ctx)
	}
	err := w.dash.Wait(ctx)
	if err == nil {
		err = w.dash.Err()
	}
	snap := w.dash.Snapshot(w.now())

	if w.observer != nil {
		w.observer.ObserveRefresh(err)
	}
	evt := w.logger.Info()
	if err != nil {
		evt = w.logger.Warn().Err(err)
	}
	evt.Int64("registrations", snap.KPIs.TotalRegistrations).
		Int64("appointments", snap.KPIs.TotalAppointments).
		Int64("cancellations_30d", snap.KPIs.Cancellations30d).
		Str("top_specialization", snap.KPIs.TopSpecialization).
		Msg("report refresh")

	if w.onSnapshot != nil {
		w.onSnapshot(snap)
	}
	return snap, err
}

// Start schedules RefreshOnce every interval, beginning immediately. Runs
// never overlap.
func (w *Watcher) Start() error {
	if w.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", w.interval)
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(w.interval).Do(func() {
		_, _ = w.RefreshOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule report refresh: %w", err)
	}
	s.StartAsync()

	w.mu.Lock()
	w.sched = s
	w.mu.Unlock()
	w.logger.Info().Dur("interval", w.interval).Msg("report watcher started")
	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	s := w.sched
	w.sched = nil
	w.mu.Unlock()
	if s != nil {
		s.Stop()
	}
}
