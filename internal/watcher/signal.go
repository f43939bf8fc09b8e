package watcher

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/harrison/dirwatcher/internal/logger"
)

// ShutdownSignals are the signals that stop a watcher: Ctrl+C from an
// interactive terminal and SIGTERM from a process manager or `kill`.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Shutdowner is the side of the Watcher the signal bridge talks to.
type Shutdowner interface {
	RequestShutdown() bool
}

// SignalBridge turns OS termination signals into a shutdown request.
// Each signal is logged with its name before the flag is set; the flag
// itself is only ever set once.
type SignalBridge struct {
	target Shutdowner
	logger logger.Logger
	sigCh  chan os.Signal
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewSignalBridge registers for ShutdownSignals and starts forwarding them
// to target. Call Stop to unregister.
func NewSignalBridge(target Shutdowner, log logger.Logger) *SignalBridge {
	b := newBridge(target, log)
	signal.Notify(b.sigCh, ShutdownSignals...)
	b.start()
	return b
}

func newBridge(target Shutdowner, log logger.Logger) *SignalBridge {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &SignalBridge{
		target: target,
		logger: log,
		// Buffered so a signal is not lost if it arrives while the previous one is being logged
		sigCh: make(chan os.Signal, 2),
		done:  make(chan struct{}),
	}
}

func (b *SignalBridge) start() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case sig := <-b.sigCh:
				b.handle(sig)
			case <-b.done:
				return
			}
		}
	}()
}

func (b *SignalBridge) handle(sig os.Signal) {
	b.logger.Warnf("received %s, %s", signalName(sig), signalMeaning(sig))
	if !b.target.RequestShutdown() {
		b.logger.Debugf("shutdown already requested, ignoring %s", signalName(sig))
	}
}

// Stop unregisters the signal handlers and waits for the forwarding
// goroutine to exit. It is safe to call more than once.
func (b *SignalBridge) Stop() {
	b.once.Do(func() {
		signal.Stop(b.sigCh)
		close(b.done)
		b.wg.Wait()
	})
}

// signalName returns the conventional SIGxxx name.
func signalName(sig os.Signal) string {
	switch sig {
	case os.Interrupt:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return sig.String()
	}
}

func signalMeaning(sig os.Signal) string {
	switch sig {
	case os.Interrupt:
		return "interrupted from the terminal (Ctrl+C)"
	case syscall.SIGTERM:
		return "termination requested by the OS or a process manager"
	default:
		return "shutting down"
	}
}
