package overlay

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_Fires(t *testing.T) {
	var tm timer
	var fired atomic.Int32

	tm.Arm(10*time.Millisecond, func() { fired.Add(1) })
	assert.True(t, tm.Armed())

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, time.Millisecond)
	assert.False(t, tm.Armed())
}

func TestTimer_CancelPreventsFiring(t *testing.T) {
	var tm timer
	var fired atomic.Int32

	tm.Arm(20*time.Millisecond, func() { fired.Add(1) })
	tm.Cancel()
	assert.False(t, tm.Armed())

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestTimer_ArmSupersedes(t *testing.T) {
	var tm timer
	var first, second atomic.Int32

	tm.Arm(20*time.Millisecond, func() { first.Add(1) })
	tm.Arm(40*time.Millisecond, func() { second.Add(1) })

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, first.Load(), "superseded callback must never fire")
	assert.Equal(t, int32(1), second.Load())
}

func TestTimer_CancelIdempotent(t *testing.T) {
	var tm timer
	tm.Cancel()
	tm.Cancel()

	tm.Arm(10*time.Millisecond, func() {})
	tm.Cancel()
	tm.Cancel()
	assert.False(t, tm.Armed())
}

func TestTimer_Rearm(t *testing.T) {
	var tm timer
	var fired atomic.Int32

	tm.Arm(10*time.Millisecond, func() { fired.Add(1) })
	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, time.Millisecond)

	tm.Arm(10*time.Millisecond, func() { fired.Add(1) })
	require.Eventually(t, func() bool {
		return fired.Load() == 2
	}, time.Second, time.Millisecond)
}
