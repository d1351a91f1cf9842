package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbalug7/go-by8301-hx711/pkg/by8301"
)

func TestReadBurstAccumulatesChunks(t *testing.T) {
	port := &fakePort{chunk: 2}
	port.inject([]byte("OK0012\r\n"))
	line := NewLine(port, testIdle)
	data, err := line.ReadBurst(100 * time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, []byte("OK0012\r\n"), data)
}

func TestReadBurstTimesOutEmpty(t *testing.T) {
	line := NewLine(&fakePort{}, testIdle)
	start := time.Now()
	data, err := line.ReadBurst(20 * time.Millisecond)
	require.NoError(t, err)
	require.Empty(t, data)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestReadBurstError(t *testing.T) {
	line := NewLine(&fakePort{readErr: errWire}, testIdle)
	_, err := line.ReadBurst(20 * time.Millisecond)
	require.ErrorIs(t, err, errWire)
}

func TestReadBurstUsesClock(t *testing.T) {
	// a clock that is already past the deadline on the second reading
	port := &fakePort{}
	port.inject([]byte("late"))
	line := NewLine(port, testIdle)
	calls := 0
	base := time.Now()
	line.now = func() time.Time {
		calls++
		if calls > 1 {
			return base.Add(time.Hour)
		}
		return base
	}
	data, err := line.ReadBurst(time.Second)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestLineWriteAndDiscard(t *testing.T) {
	port := &fakePort{}
	port.inject([]byte("stale"))
	line := NewLine(port, testIdle)
	require.NoError(t, line.Discard())
	require.Equal(t, 1, port.flushes)
	require.NoError(t, line.Write([]byte{0x01}))
	require.Equal(t, [][]byte{{0x01}}, port.written)

	port.setWriteErr(errWire)
	require.ErrorIs(t, line.Write([]byte{0x01}), errWire)
}

func TestReadBurstWaitsForIdleGap(t *testing.T) {
	// a non-blocking port handing over one byte per character time
	port := &timedPort{chunks: trickle("OK0002\r\n", time.Millisecond)}
	line := NewLine(port, 10*time.Millisecond)
	data, err := line.ReadBurst(100 * time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, []byte("OK0002\r\n"), data)
}

func TestReadBurstEndsAtIdleGap(t *testing.T) {
	port := &timedPort{chunks: []timedChunk{
		{at: 0, data: []byte("OK")},
		{at: 80 * time.Millisecond, data: []byte("late")},
	}}
	line := NewLine(port, 10*time.Millisecond)
	start := time.Now()
	data, err := line.ReadBurst(200 * time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, []byte("OK"), data)
	require.Less(t, time.Since(start), 80*time.Millisecond)
}

func TestBusWithNonBlockingPort(t *testing.T) {
	port := &timedPort{chunks: trickle("0002\r\n", time.Millisecond)}
	bus := NewBus(NewLine(port, 10*time.Millisecond), 0, nil, nil)
	player := by8301.NewPlayer(bus, 100*time.Millisecond, nil)
	state, err := player.PlayState()
	require.NoError(t, err)
	require.Equal(t, by8301.StatePaused, state)
}
