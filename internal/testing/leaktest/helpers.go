// Package leaktest fails tests that leave goroutines behind, such as a push
// worker whose timers survive Shutdown.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = 500 * time.Millisecond
	pollInterval  = 20 * time.Millisecond
	stackBufSize  = 1 << 16
)

// Baseline is the goroutine count taken before the code under test ran.
type Baseline struct {
	t     testing.TB
	count int
}

// Mark records the current goroutine count.
func Mark(t testing.TB) *Baseline {
	t.Helper()
	runtime.Gosched()
	return &Baseline{t: t, count: runtime.NumGoroutine()}
}

// Verify waits briefly for goroutines to exit and fails the test, with a
// dump of every stack, when more than tolerance remain above the baseline.
func (b *Baseline) Verify(tolerance int) {
	b.t.Helper()

	deadline := time.Now().Add(settleTimeout)
	n := runtime.NumGoroutine()
	for n-b.count > tolerance && time.Now().Before(deadline) {
		time.Sleep(pollInterval)
		n = runtime.NumGoroutine()
	}
	if leaked := n - b.count; leaked > tolerance {
		buf := make([]byte, stackBufSize)
		buf = buf[:runtime.Stack(buf, true)]
		b.t.Errorf("%d goroutines leaked (before=%d after=%d tolerance=%d)\n%s",
			leaked, b.count, n, tolerance, buf)
	}
}
