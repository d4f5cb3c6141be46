package peach

import (
	"encoding/binary"
	"time"

	"github.com/robvanmieghem/go-opencl/cl"

	"github.com/lynxx1748/mochimo/mining"
)

// Status is a device's position in the mining state machine.
type Status int

const (
	StatusNull Status = iota
	StatusInit
	StatusIdle
	StatusWork
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusNull:
		return "NULL"
	case StatusInit:
		return "INIT"
	case StatusIdle:
		return "IDLE"
	case StatusWork:
		return "WORK"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// BridgeV3 is the pool/network protocol constant governing the maximum
// block age, in seconds, before a job is considered stale.
const BridgeV3 = 300

// prngStateWords is the size, in 64-bit words, of a queue's device-resident
// PRNG state buffer: one SplitMix64 cell per work-item, sized to the
// largest globalWorkSize Init can produce.
const prngStateWords = 256

// solveResultLen is the wire size of a queue's device solve buffer: a
// 4-byte atomic claim word the solve kernel CASes from zero, followed by
// the 32-byte nonce the CAS winner writes.
const solveResultLen = 4 + 32

// queue is one of a device's two double-buffered command queues: its own
// OpenCL command queue plus the host mirrors of the block trailer it is
// currently working and its solve slot.
type queue struct {
	cq *cl.CommandQueue

	mirror Trailer
	slot   SolveSlot
	state  [prngStateWords]PRNGState // one cell per work-item; seeded once, then GPU-resident
	seeded bool

	ready chan struct{} // closed (and replaced) when the last enqueued op completes
}

func (q *queue) isReady() bool {
	select {
	case <-q.ready:
		return true
	default:
		return false
	}
}

func (q *queue) markBusy() {
	q.ready = make(chan struct{})
}

func (q *queue) markDone() {
	close(q.ready)
}

// Device is the host-side orchestrator for one mining device. It owns the
// 1 GiB tile cache, two double-buffered queues, and the state
// machine that pipelines cache-build work against solve work.
type Device struct {
	ID   int
	Name string

	clDevice  *cl.Device
	clContext *cl.Context
	program   *cl.Program
	buildK    [2]*cl.Kernel
	solveK    [2]*cl.Kernel

	dMap   *cl.MemObject
	dPhash *cl.MemObject
	dBt    [2]*cl.MemObject
	dState [2]*cl.MemObject
	dSolve [2]*cl.MemObject

	cache Cache
	phash [32]byte

	queues [2]queue

	status        Status
	buildProgress uint32
	lastActivity  time.Time
	hashesPerSec  float64

	globalWorkSize int
	localWorkSize  int
	threads        int
}

// NewDevice allocates the host-side state for a device without touching
// the GPU; call Init to perform the OpenCL context/program/kernel setup
// that transitions it NULL -> INIT. A device that never has Init called on
// it (clDevice == nil, as in tests) runs its build and solve work on the
// host instead of a GPU, so the orchestrator's state machine is exercisable
// without hardware.
func NewDevice(id int, clDevice *cl.Device) *Device {
	d := &Device{ID: id, clDevice: clDevice, status: StatusNull}
	if clDevice != nil {
		d.Name = clDevice.Name()
	}
	for i := range d.queues {
		d.queues[i].ready = make(chan struct{})
		close(d.queues[i].ready)
	}
	return d
}

// Init allocates the OpenCL context, command queues, program, kernels and
// the device-resident 1 GiB cache buffer, then transitions NULL -> INIT.
// A failure here moves the device to FAIL; callers should skip it rather
// than retry.
func (d *Device) Init() error {
	ctx, err := cl.CreateContext([]*cl.Device{d.clDevice})
	if err != nil {
		d.status = StatusFail
		return err
	}
	d.clContext = ctx

	for i := range d.queues {
		cq, err := ctx.CreateCommandQueue(d.clDevice, 0)
		if err != nil {
			d.status = StatusFail
			return err
		}
		d.queues[i].cq = cq
	}

	program, err := ctx.CreateProgramWithSource([]string{sharedKernelSource, buildKernelSource, solveKernelSource})
	if err != nil {
		d.status = StatusFail
		return err
	}
	d.program = program
	if err := program.BuildProgram([]*cl.Device{d.clDevice}, ""); err != nil {
		d.status = StatusFail
		return err
	}

	for i := range d.queues {
		buildK, err := program.CreateKernel("peach_build")
		if err != nil {
			d.status = StatusFail
			return err
		}
		d.buildK[i] = buildK

		solveK, err := program.CreateKernel("peach_solve")
		if err != nil {
			d.status = StatusFail
			return err
		}
		d.solveK[i] = solveK
	}

	localSize, err := d.solveK[0].WorkGroupSize(d.clDevice)
	if err != nil {
		d.status = StatusFail
		return err
	}
	if localSize > 256 {
		localSize = 256
	}
	d.localWorkSize = localSize
	d.threads = computeUnitsTimes256(d.clDevice)
	d.globalWorkSize = d.threads

	d.cache = make(Cache, int64(CacheLen)*TileLen)

	// Device-resident mirrors of the host buffers: the 1 GiB tile map, the
	// phash driving its construction, and per-queue trailer/PRNG-state/
	// solve-slot buffers.
	d.dMap = mining.CreateEmptyBuffer(ctx, cl.MemReadWrite, int(CacheLen)*TileLen)
	d.dPhash = mining.CreateEmptyBuffer(ctx, cl.MemReadOnly, 32)
	for i := range d.dBt {
		d.dBt[i] = mining.CreateEmptyBuffer(ctx, cl.MemReadOnly, TrailerLen)
		d.dState[i] = mining.CreateEmptyBuffer(ctx, cl.MemReadWrite, prngStateWords*8)
		d.dSolve[i] = mining.CreateEmptyBuffer(ctx, cl.MemReadWrite, solveResultLen)

		d.buildK[i].SetArgBuffer(1, d.dMap)
		d.buildK[i].SetArgBuffer(2, d.dPhash)

		d.solveK[i].SetArgBuffer(0, d.dMap)
		d.solveK[i].SetArgBuffer(1, d.dBt[i])
		d.solveK[i].SetArgBuffer(2, d.dState[i])
		d.solveK[i].SetArgBuffer(4, d.dSolve[i])
	}

	d.status = StatusInit
	d.buildProgress = 0
	d.lastActivity = time.Now()
	return nil
}

func computeUnitsTimes256(device *cl.Device) int {
	units := device.MaxComputeUnits()
	return units * 256
}

// onGPU reports whether queue id has a live kernel pair to dispatch to;
// false only for devices tests construct without calling Init.
func (d *Device) onGPU(id int) bool {
	return d.buildK[id] != nil && d.solveK[id] != nil
}

// Step runs one iteration of the mining state machine against the supplied
// job trailer bt and difficulty diff, writing any found solution into
// btout and returning true. It never blocks on the device longer than one
// NDRange dispatch and its read-back; all enqueue operations happen against
// queues the orchestrator has already confirmed are ready.
func (d *Device) Step(bt *Trailer, diff byte, btout *Trailer) (bool, error) {
	if d.status == StatusFail || d.status == StatusNull {
		return false, nil
	}

	if d.status == StatusInit {
		if err := d.stepInit(bt); err != nil {
			d.status = StatusFail
			return false, err
		}
	}

	if d.status == StatusIdle {
		if bt.Tcount() != 0 && bt.BnumUint64() != btout.BnumUint64() &&
			time.Since(time.Unix(int64(bt.Time0()), 0)) < BridgeV3*time.Second {
			d.lastActivity = time.Now()
			d.status = StatusWork
			d.buildProgress = 0
		}
	}

	if d.status == StatusWork {
		return d.stepWork(bt, diff, btout)
	}

	return false, nil
}

func (d *Device) stepInit(bt *Trailer) error {
	for id := range d.queues {
		q := &d.queues[id]
		if !q.isReady() {
			continue
		}

		if d.buildProgress == 0 {
			other := &d.queues[id^1]
			if !other.isReady() {
				break
			}
			q.slot.Clear()
			other.slot.Clear()
			q.mirror = *bt
			other.mirror = *bt
			copy(d.phash[:], bt.Phash())
			if d.onGPU(id) {
				if err := d.queues[id].cq.EnqueueWriteBufferByte(d.dPhash, true, 0, d.phash[:], nil); err != nil {
					return err
				}
			}
		}

		if d.buildProgress < CacheLen {
			remaining := CacheLen - d.buildProgress
			chunk := uint32(d.globalWorkSize)
			if remaining < chunk {
				chunk = remaining
			}
			offset := d.buildProgress
			phashCopy := d.phash
			q.markBusy()
			if d.onGPU(id) {
				go d.launchBuildChunk(q, id, offset, chunk)
			} else {
				go func(q *queue, offset, chunk uint32, phash [32]byte) {
					for i := offset; i < offset+chunk; i++ {
						Tile(i, phash[:], d.cache.Tile(i))
					}
					q.markDone()
				}(q, offset, chunk, phashCopy)
			}
			d.buildProgress += chunk
		} else {
			other := &d.queues[id^1]
			if !other.isReady() {
				break
			}
			d.lastActivity = time.Now()
			d.status = StatusIdle
			d.buildProgress = 0
			break
		}
	}
	return nil
}

// launchBuildChunk enqueues one NDRange dispatch of peach_build covering
// [offset, offset+chunk) tiles and blocks (on its own goroutine) for the
// read-back that lets markDone observe completion.
func (d *Device) launchBuildChunk(q *queue, id int, offset, chunk uint32) {
	defer q.markDone()

	k := d.buildK[id]
	if err := k.SetArg(0, offset); err != nil {
		return
	}
	global := []int{int(chunk)}
	if _, err := q.cq.EnqueueNDRangeKernel(k, nil, global, nil, nil); err != nil {
		return
	}
	// A single-byte read-back from the chunk just written forces the
	// in-order queue to wait for the dispatch, without needing to read
	// the whole 1 GiB cache back to the host.
	var probe [1]byte
	off := int(uint64(offset) * TileLen)
	q.cq.EnqueueReadBufferByte(d.dMap, true, off, probe[:], nil)
}

func (d *Device) stepWork(bt *Trailer, diff byte, btout *Trailer) (bool, error) {
	for id := range d.queues {
		q := &d.queues[id]
		if !q.isReady() {
			continue
		}

		if string(q.mirror.Phash()) != string(bt.Phash()) {
			d.status = StatusInit
			d.buildProgress = 0
			return false, nil
		}

		if bt.Tcount() == 0 || bt.BnumUint64() == btout.BnumUint64() ||
			time.Since(time.Unix(int64(bt.Time0()), 0)) >= BridgeV3*time.Second {
			d.status = StatusIdle
			d.buildProgress = 0
			return false, nil
		}

		if nonce, solved := q.slot.Solved(); solved {
			*btout = q.mirror
			copy(btout.Nonce(), nonce[:])
			q.slot.Clear()
			return true, nil
		}

		q.mirror = *bt
		generateHalfNonce(q.mirror.Nonce()[0:16])

		effDiff := EffectiveDifficulty(diff, bt.Difficulty())
		q.markBusy()
		if d.onGPU(id) {
			go d.launchSolveBatchGPU(q, id, effDiff)
		} else {
			go d.launchSolveBatch(q, id, effDiff)
		}

		d.buildProgress += uint32(d.threads)
		elapsed := time.Since(d.lastActivity).Seconds()
		if elapsed < 1 {
			elapsed = 1
		}
		d.hashesPerSec = float64(d.buildProgress) / elapsed
	}
	return false, nil
}

// launchSolveBatch is the host-side stand-in for one NDRange dispatch of
// the solve kernel, used only by devices with no GPU behind them: it runs
// threads work-items against q's mirrored trailer and cache, publishing
// the first qualifying nonce into q.slot.
func (d *Device) launchSolveBatch(q *queue, queueID int, diff byte) {
	defer q.markDone()

	base := q.mirror
	n0 := loaduint64(base.Nonce()[0:8])
	n1 := loaduint64(base.Nonce()[8:16])

	for w := 0; w < d.threads; w++ {
		if w >= len(q.state) {
			break
		}
		if q.state[w] == 0 {
			q.state[w] = SeedPRNG(uint32(time.Now().Unix()), uint32(d.ID), uint32(queueID))
		}
		seed := q.state[w].Next()
		n2, n3 := PackNonce(seed)

		nonce, ok := TrySolve(&base, d.cache, diff, n0, n1, n2, n3)
		if ok {
			q.slot.TryPublish(uint32(w+1), nonce)
			return
		}
	}
}

// launchSolveBatchGPU enqueues one NDRange dispatch of peach_solve: it
// seeds the queue's device-resident PRNG state on first use, writes the
// mirrored trailer and a cleared claim word, dispatches, and reads the
// solve buffer back. Advancing PRNG state and the CAS-based publish both
// happen entirely on the device; only the final 36-byte result crosses
// back to the host.
func (d *Device) launchSolveBatchGPU(q *queue, id int, diff byte) {
	defer q.markDone()

	if !q.seeded {
		for w := range q.state {
			q.state[w] = SeedPRNG(uint32(time.Now().Unix()), uint32(d.ID), uint32(id))
		}
		var raw [prngStateWords * 8]byte
		for w, s := range q.state {
			binary.LittleEndian.PutUint64(raw[w*8:], uint64(s))
		}
		if err := q.cq.EnqueueWriteBufferByte(d.dState[id], true, 0, raw[:], nil); err != nil {
			return
		}
		q.seeded = true
	}

	if err := q.cq.EnqueueWriteBufferByte(d.dBt[id], true, 0, q.mirror[:], nil); err != nil {
		return
	}
	var zero [solveResultLen]byte
	if err := q.cq.EnqueueWriteBufferByte(d.dSolve[id], true, 0, zero[:], nil); err != nil {
		return
	}

	k := d.solveK[id]
	if err := k.SetArg(3, diff); err != nil {
		return
	}
	global := []int{d.threads}
	if _, err := q.cq.EnqueueNDRangeKernel(k, nil, global, nil, nil); err != nil {
		return
	}

	var result [solveResultLen]byte
	if err := q.cq.EnqueueReadBufferByte(d.dSolve[id], true, 0, result[:], nil); err != nil {
		return
	}
	claim := binary.LittleEndian.Uint32(result[0:4])
	if claim == 0 {
		return
	}
	var nonce [32]byte
	copy(nonce[:], result[4:36])
	q.slot.TryPublish(claim, nonce)
}

func generateHalfNonce(dst []byte) {
	// Host-side half-nonce refresh: the lower 16 bytes are zero-filled;
	// PackNonce supplies the variation in the upper 16 bytes.
	for i := range dst {
		dst[i] = 0
	}
}

func loaduint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// CurrentStatus returns the device's current state-machine position.
func (d *Device) CurrentStatus() Status { return d.status }

// HashesPerSecond returns the device's most recent hashrate estimate.
func (d *Device) HashesPerSecond() float64 { return d.hashesPerSec }

// Release tears down the device's OpenCL resources. Safe to call on a
// device that failed partway through Init.
func (d *Device) Release() {
	if d.dMap != nil {
		d.dMap.Release()
	}
	if d.dPhash != nil {
		d.dPhash.Release()
	}
	for i := range d.dBt {
		if d.dBt[i] != nil {
			d.dBt[i].Release()
		}
		if d.dState[i] != nil {
			d.dState[i].Release()
		}
		if d.dSolve[i] != nil {
			d.dSolve[i].Release()
		}
	}
	for i := range d.buildK {
		if d.buildK[i] != nil {
			d.buildK[i].Release()
		}
		if d.solveK[i] != nil {
			d.solveK[i].Release()
		}
	}
	if d.program != nil {
		d.program.Release()
	}
	for i := range d.queues {
		if d.queues[i].cq != nil {
			d.queues[i].cq.Release()
		}
	}
	if d.clContext != nil {
		d.clContext.Release()
	}
}
