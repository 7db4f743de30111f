package workers

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultSize(t *testing.T) {
	pool := New(0)
	defer pool.Shutdown()

	assert.Equal(t, DefaultSize(), pool.Size())
	assert.GreaterOrEqual(t, pool.Size(), 1)
}

func TestPool_BoundedConcurrency(t *testing.T) {
	pool := New(2)

	var running, peak atomic.Int32
	group := pool.NewGroup()
	for i := 0; i < 32; i++ {
		group.Submit(func() {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			running.Add(-1)
		})
	}
	require.NoError(t, group.Wait())
	pool.Shutdown()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	stats := pool.Stats()
	assert.Equal(t, uint64(32), stats.Completed)
	assert.Equal(t, uint64(0), stats.Failed)
}

func TestReadProcessStats(t *testing.T) {
	stats, err := ReadProcessStats()
	if err != nil {
		t.Skipf("gopsutil недоступен на этой платформе: %v", err)
	}
	assert.Greater(t, stats.Goroutines, 0)
	assert.Greater(t, stats.RSSMB, 0.0)
}
