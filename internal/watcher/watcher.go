// Package watcher runs the poll loop: it snapshots the watched directory on
// a fixed interval, reports what changed since the previous snapshot, and
// stops cleanly when asked to.
package watcher

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/dirwatcher/internal/diff"
	"github.com/harrison/dirwatcher/internal/logger"
	"github.com/harrison/dirwatcher/internal/models"
	"github.com/harrison/dirwatcher/internal/reporter"
	"github.com/harrison/dirwatcher/internal/scanner"
)

// DefaultPollInterval is used when Options.Interval is zero.
const DefaultPollInterval = 2 * time.Second

// Snapshotter produces directory snapshots. *scanner.Scanner implements it.
type Snapshotter interface {
	Scan() (*models.Snapshot, error)
	Dir() string
}

// Options configures a Watcher.
type Options struct {
	Scanner  Snapshotter
	Interval time.Duration
	Marker   string // Only used in the startup summary
	Logger   logger.Logger
	RunID    string // Generated when empty
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	StoppedAt time.Time
	Uptime    time.Duration
	Ticks     int
}

// Watcher owns the watch state: the previous snapshot, the start time and
// the shutdown flag. Run must be called at most once.
type Watcher struct {
	scanner  Snapshotter
	reporter *reporter.Reporter
	logger   logger.Logger
	interval time.Duration
	marker   string
	runID    string

	state    atomic.Int32
	shutdown atomic.Bool
	wake     chan struct{}

	previous  *models.Snapshot
	startTime time.Time
	ticks     int
}

// New creates a Watcher. It does not touch the file system.
func New(opts Options) *Watcher {
	if opts.Scanner == nil {
		panic("scanner cannot be nil")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	w := &Watcher{
		scanner:  opts.Scanner,
		reporter: reporter.New(log),
		logger:   log,
		interval: interval,
		marker:   opts.Marker,
		runID:    runID,
		wake:     make(chan struct{}, 1),
	}
	w.state.Store(int32(StateInitializing))
	return w
}

// RunID returns the identifier written to the startup and shutdown summaries.
func (w *Watcher) RunID() string {
	return w.runID
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

func (w *Watcher) setState(s State) {
	w.state.Store(int32(s))
}

// RequestShutdown sets the shutdown flag and wakes the poll loop if it is
// sleeping. It is safe to call from any goroutine, any number of times;
// only the first call has an effect, and only the first call returns true.
func (w *Watcher) RequestShutdown() bool {
	if !w.shutdown.CompareAndSwap(false, true) {
		return false
	}
	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

// ShutdownRequested reports whether RequestShutdown has been called.
func (w *Watcher) ShutdownRequested() bool {
	return w.shutdown.Load()
}

// Run takes the initial snapshot and then polls until shutdown is requested
// or ctx is cancelled. The only error it returns is a failure to take the
// initial snapshot, typically a *scanner.DirectoryError; in that case
// nothing is logged here and the caller reports the failure.
func (w *Watcher) Run(ctx context.Context) (*Summary, error) {
	w.setState(StateInitializing)

	initial, err := w.scanner.Scan()
	if err != nil {
		w.setState(StateTerminated)
		return nil, err
	}
	w.previous = initial
	w.startTime = time.Now()
	w.logStartup(initial)

	w.setState(StateRunning)
	for !w.ShutdownRequested() {
		if !w.sleep(ctx) {
			break
		}
		w.tick()
	}

	w.setState(StateDraining)
	summary := w.drain()
	w.setState(StateTerminated)
	return summary, nil
}

// sleep waits one poll interval. It returns false if the wait was cut short
// by a shutdown request or by ctx.
func (w *Watcher) sleep(ctx context.Context) bool {
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-w.wake:
		return false
	case <-ctx.Done():
		w.logger.Infof("context done: %v", ctx.Err())
		return false
	}
}

// tick takes a new snapshot, reports the delta against the previous one and
// rolls the snapshot forward. A failure to list the directory leaves the
// previous snapshot in place so nothing is reported as removed.
func (w *Watcher) tick() {
	w.ticks++

	snap, err := w.scanner.Scan()
	if err != nil {
		w.logger.Errorf("scan failed, keeping previous state: %v", err)
		return
	}

	settled := diff.Settle(w.previous, snap)
	w.reporter.Report(diff.Snapshots(w.previous, settled))
	w.previous = settled

	w.logger.Debugf("tick %d: %d files, %d markers, %d skipped",
		w.ticks, snap.Files.Len(), snap.Findings.Len(), len(snap.Skipped))
}

func (w *Watcher) logStartup(initial *models.Snapshot) {
	w.logger.Infof("dirwatcher started: run %s at %s, watching %s every %s for %q",
		w.runID, w.startTime.Format(time.RFC3339), w.scanner.Dir(), w.interval, w.marker)
	w.logger.Infof("initial files (%d): [%s]", initial.Files.Len(), strings.Join(initial.Files.Sorted(), ", "))

	findings := initial.Findings.Sorted()
	parts := make([]string, len(findings))
	for i, f := range findings {
		parts[i] = f.String()
	}
	w.logger.Infof("initial markers (%d): [%s]", len(findings), strings.Join(parts, ", "))
}

func (w *Watcher) drain() *Summary {
	stopped := time.Now()
	summary := &Summary{
		RunID:     w.runID,
		StartedAt: w.startTime,
		StoppedAt: stopped,
		Uptime:    stopped.Sub(w.startTime),
		Ticks:     w.ticks,
	}

	w.logger.Infof("dirwatcher stopped: run %s at %s, uptime %s seconds after %d polls",
		summary.RunID, stopped.Format(time.RFC3339), formatSeconds(summary.Uptime), summary.Ticks)
	w.logger.Infof("terminated")
	return summary
}

// formatSeconds renders d as seconds with millisecond precision.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

var _ Snapshotter = (*scanner.Scanner)(nil)
