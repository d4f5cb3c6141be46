package peach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "NULL", StatusNull.String())
	assert.Equal(t, "INIT", StatusInit.String())
	assert.Equal(t, "IDLE", StatusIdle.String())
	assert.Equal(t, "WORK", StatusWork.String())
	assert.Equal(t, "FAIL", StatusFail.String())
}

func TestNewDeviceStartsNull(t *testing.T) {
	d := NewDevice(0, nil)
	assert.Equal(t, StatusNull, d.CurrentStatus())
}

func TestStepOnNullDeviceIsANoop(t *testing.T) {
	d := NewDevice(0, nil)
	var bt, out Trailer
	solved, err := d.Step(&bt, 10, &out)
	assert.NoError(t, err)
	assert.False(t, solved)
	assert.Equal(t, StatusNull, d.CurrentStatus())
}

func TestStepOnFailedDeviceIsANoop(t *testing.T) {
	d := NewDevice(0, nil)
	d.status = StatusFail
	var bt, out Trailer
	solved, err := d.Step(&bt, 10, &out)
	assert.NoError(t, err)
	assert.False(t, solved)
	assert.Equal(t, StatusFail, d.CurrentStatus())
}

func TestLaunchSolveBatchPublishesAtZeroDifficulty(t *testing.T) {
	d := NewDevice(0, nil)
	d.cache = make(Cache, CacheLen*TileLen)
	d.threads = 4

	q := &d.queues[0]
	q.mirror.SetBnumUint64(1)
	q.markBusy()

	d.launchSolveBatch(q, 0, 0)

	_, solved := q.slot.Solved()
	assert.True(t, solved, "difficulty 0 must be satisfied by the first work-item tried")
}

// newTestDevice builds a device with no GPU behind it, a full-size host
// cache for the CPU build and solve paths, and small work sizes so each
// build or solve chunk covers only a few tiles or nonces.
func newTestDevice(t *testing.T) *Device {
	t.Helper()
	d := NewDevice(0, nil)
	d.cache = make(Cache, CacheLen*TileLen)
	d.globalWorkSize = 8
	d.threads = 4
	return d
}

func waitReady(t *testing.T, q *queue) {
	t.Helper()
	select {
	case <-q.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("queue never became ready")
	}
}

func TestStepInitTransitionsToIdleOnBuildCompletion(t *testing.T) {
	d := newTestDevice(t)
	var bt Trailer
	bt.SetBnumUint64(1)
	d.status = StatusInit

	// Fast-forward buildProgress to the last chunk so the test does not
	// have to iterate a million-tile cache to observe the transition.
	d.buildProgress = CacheLen - uint32(d.globalWorkSize)
	if err := d.stepInit(&bt); err != nil {
		t.Fatalf("stepInit: %v", err)
	}
	waitReady(t, &d.queues[0])
	waitReady(t, &d.queues[1])

	if err := d.stepInit(&bt); err != nil {
		t.Fatalf("stepInit: %v", err)
	}
	assert.Equal(t, StatusIdle, d.status)
	assert.Equal(t, uint32(0), d.buildProgress)
}

func TestStepGatesIdleIntoWorkOnFreshJob(t *testing.T) {
	d := newTestDevice(t)
	d.status = StatusIdle

	var bt, out Trailer
	bt.SetTcount(1)
	bt.SetBnumUint64(5)
	bt.SetTime0(uint32(time.Now().Unix()))
	out.SetBnumUint64(1) // different bnum than bt, so the gate is satisfied

	_, err := d.Step(&bt, 10, &out)
	assert.NoError(t, err)
	assert.Equal(t, StatusWork, d.status)
}

func TestStepIdleStaysIdleWithoutTcount(t *testing.T) {
	d := newTestDevice(t)
	d.status = StatusIdle

	var bt, out Trailer
	bt.SetBnumUint64(5)
	bt.SetTime0(uint32(time.Now().Unix()))
	out.SetBnumUint64(1)

	_, err := d.Step(&bt, 10, &out)
	assert.NoError(t, err)
	assert.Equal(t, StatusIdle, d.status)
}

func TestStepWorkFallsBackToInitOnPhashChange(t *testing.T) {
	d := newTestDevice(t)
	d.status = StatusWork
	for i := range d.queues {
		d.queues[i].mirror.SetBnumUint64(1)
		copy(d.queues[i].mirror.Phash(), []byte{1, 2, 3})
	}

	var bt, out Trailer
	bt.SetTcount(1)
	bt.SetBnumUint64(5)
	bt.SetTime0(uint32(time.Now().Unix()))
	copy(bt.Phash(), []byte{9, 9, 9})
	out.SetBnumUint64(1)

	solved, err := d.stepWork(&bt, 10, &out)
	assert.NoError(t, err)
	assert.False(t, solved)
	assert.Equal(t, StatusInit, d.status)
	assert.Equal(t, uint32(0), d.buildProgress)
}

func TestStepWorkFallsBackToIdleOnStaleBlock(t *testing.T) {
	d := newTestDevice(t)
	d.status = StatusWork
	for i := range d.queues {
		d.queues[i].mirror.SetBnumUint64(1)
	}

	var bt, out Trailer
	bt.SetTcount(1)
	bt.SetBnumUint64(5)
	bt.SetTime0(uint32(time.Now().Add(-2 * BridgeV3 * time.Second).Unix()))
	out.SetBnumUint64(1)

	solved, err := d.stepWork(&bt, 10, &out)
	assert.NoError(t, err)
	assert.False(t, solved)
	assert.Equal(t, StatusIdle, d.status)
	assert.Equal(t, uint32(0), d.buildProgress)
}

func TestStepWorkReportsSolvedSlot(t *testing.T) {
	d := newTestDevice(t)
	d.status = StatusWork
	d.cache = make(Cache, CacheLen*TileLen)

	var bt, out Trailer
	bt.SetTcount(1)
	bt.SetBnumUint64(5)
	bt.SetTime0(uint32(time.Now().Unix()))
	copy(bt.Phash(), []byte{1, 2, 3})
	out.SetBnumUint64(1)

	q := &d.queues[0]
	q.mirror = bt
	var nonce [32]byte
	nonce[0] = 0xAB
	q.slot.TryPublish(1, nonce)
	d.queues[1].mirror = bt

	solved, err := d.stepWork(&bt, 10, &out)
	assert.NoError(t, err)
	assert.True(t, solved)
	assert.Equal(t, byte(0xAB), out.Nonce()[0])
}
