package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hardbound/internal/logging"
	"hardbound/internal/processed"
	"hardbound/internal/services/qbittorrent"
)

// JobSource is the download-client surface the monitor polls.
type JobSource interface {
	Connect(ctx context.Context) error
	ListJobs(ctx context.Context) ([]qbittorrent.Job, error)
}

// Organizer files one completed download into the library.
type Organizer interface {
	Run(ctx context.Context) error
}

// Monitor is the reconciliation loop: every interval it lists the managed
// category's jobs and, for each completed job it has not handled yet, runs
// organize then notify, and only then records the job as processed. A crash
// or failure before that record means the job is retried on a later tick;
// the pipeline is at-least-once by construction.
type Monitor struct {
	source     JobSource
	set        *processed.Set
	organizer  Organizer
	dispatcher *Dispatcher
	interval   time.Duration
	retry      time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewMonitor wires the completion monitor.
func NewMonitor(source JobSource, set *processed.Set, organizer Organizer, dispatcher *Dispatcher, interval, retry time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if retry <= 0 {
		retry = interval
	}
	return &Monitor{
		source:     source,
		set:        set,
		organizer:  organizer,
		dispatcher: dispatcher,
		interval:   interval,
		retry:      retry,
		logger:     logging.NewComponentLogger(logger, "monitor"),
	}
}

// Start launches the polling loop. Calling Start on a running monitor is a
// logged no-op, so accidental double starts cannot double the side effects.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.logger.Warn("monitor already running; ignoring start")
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	go m.run(runCtx)
	m.logger.Info("monitor started", logging.Duration("interval", m.interval))
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("monitor stopped")
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		next := m.interval
		if err := m.Tick(ctx); err != nil {
			next = m.retry
		}
		timer.Reset(next)
	}
}

// Tick runs one reconciliation pass. Connectivity failures skip the pass
// quietly; per-job failures are logged and isolated so one bad job cannot
// stall the rest.
func (m *Monitor) Tick(ctx context.Context) error {
	if err := m.source.Connect(ctx); err != nil {
		m.logger.Debug("download client unreachable; skipping pass", logging.Error(err))
		return err
	}
	jobs, err := m.source.ListJobs(ctx)
	if err != nil {
		m.logger.Warn("could not list download jobs", logging.Error(err))
		return err
	}

	for _, job := range jobs {
		if m.set.IsProcessed(job.ID) || !job.Complete() {
			continue
		}
		if err := m.handleCompleted(ctx, job); err != nil {
			m.logger.Error("completed job not finalized; will retry",
				logging.String(logging.FieldJobID, job.ID),
				logging.String(logging.FieldJobName, job.Name),
				logging.Error(err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// handleCompleted runs the completion pipeline for one job. The processed
// mark is written only after organization and notification both ran, so a
// failure in either is retried on the next tick.
func (m *Monitor) handleCompleted(ctx context.Context, job qbittorrent.Job) error {
	m.logger.Info("download completed",
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldJobName, job.Name))

	if err := m.organizer.Run(ctx); err != nil {
		m.dispatcher.ReportOrganizeFailure(ctx, job, err)
		return err
	}
	m.dispatcher.NotifyCompleted(ctx, job)
	return m.set.MarkProcessed(job.ID)
}
