package watcher

import (
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/harrison/dirwatcher/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	calls atomic.Int32
	flag  atomic.Bool
}

func (c *countingTarget) RequestShutdown() bool {
	c.calls.Add(1)
	return c.flag.CompareAndSwap(false, true)
}

func TestSignalBridgeLogsEachSignal(t *testing.T) {
	target := &countingTarget{}
	log := logger.NewMemoryLogger()
	b := newBridge(target, log)
	b.start()
	defer b.Stop()

	b.sigCh <- os.Interrupt
	b.sigCh <- syscall.SIGTERM

	require.Eventually(t, func() bool {
		return log.Contains("shutdown already requested, ignoring SIGTERM")
	}, time.Second, 5*time.Millisecond)

	warnings := log.Messages("WARN")
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "received SIGINT")
	assert.Contains(t, warnings[1], "received SIGTERM")
	assert.Equal(t, int32(2), target.calls.Load())
	assert.True(t, target.flag.Load())
}

func TestSignalBridgeStopIsIdempotent(t *testing.T) {
	b := NewSignalBridge(&countingTarget{}, nil)
	b.Stop()
	b.Stop()
}

func TestSignalName(t *testing.T) {
	assert.Equal(t, "SIGINT", signalName(os.Interrupt))
	assert.Equal(t, "SIGTERM", signalName(syscall.SIGTERM))
	assert.Equal(t, syscall.SIGHUP.String(), signalName(syscall.SIGHUP))
}
