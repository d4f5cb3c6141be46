// Package peach contains the pool-facing Stratum client for the Peach
// algorithm: it dials a pool, authorizes a worker, tracks the current
// job and network difficulty, and submits solved nonces.
package peach

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lynxx1748/mochimo/clients/stratum"
	"github.com/lynxx1748/mochimo/peach"
)

// JobProvider is the interface the device orchestrator polls for work: a
// split between reading the current job and reporting a solved one, but
// speaking in block trailers and raw difficulty bytes instead of headers
// and targets.
type JobProvider interface {
	// CurrentJob returns the most recently notified trailer, its pool
	// difficulty byte, and whether any job has been received yet.
	CurrentJob() (trailer peach.Trailer, difficulty byte, ok bool)
	// SubmitSolution reports a solved trailer back to the pool.
	SubmitSolution(trailer peach.Trailer) error
}

// job mirrors a pool's mining.notify payload, translated into trailer
// fields.
type job struct {
	id         string
	phash      [32]byte
	bnum       uint64
	difficulty byte
	time0      uint32
	mroot      [32]byte
	jobSeq     uint64
}

// Client is a Peach Stratum client speaking the Peach pool's job fields
// and share submission format.
type Client struct {
	connectionString string
	worker           string
	wallet           string
	log              *zap.SugaredLogger

	mu            sync.Mutex
	stratumclient *stratum.Client
	currentJob    job
	haveJob       bool
	difficulty    byte

	acceptedShares uint64
	rejectedShares uint64
}

// NewClient builds a Peach Stratum client for host:port connectionString,
// authorizing as wallet.worker.
func NewClient(connectionString, wallet, worker string, log *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: strings.TrimPrefix(connectionString, "stratum+tcp://"),
		wallet:           wallet,
		worker:           worker,
		log:              log,
	}
}

// Start connects to the pool, authorizes, and begins processing
// notifications. On a connection error it reconnects via the
// ErrorCallback-triggers-restart pattern.
func (c *Client) Start() {
	c.mu.Lock()
	c.stratumclient = &stratum.Client{}
	c.stratumclient.ErrorCallback = func(err error) {
		c.log.Errorw("stratum connection error", "error", err)
		c.stratumclient.Close()
		c.Start()
	}
	c.subscribeToJobNotifications()
	c.subscribeToDifficultyChanges()
	c.mu.Unlock()

	c.log.Infow("connecting to pool", "address", c.connectionString)
	if err := c.stratumclient.Dial(c.connectionString); err != nil {
		c.log.Errorw("dial failed", "error", err)
		return
	}

	user := c.wallet + "." + c.worker
	if err := c.stratumclient.Call("mining.authorize", []string{user, "x"}, nil); err != nil {
		c.log.Errorw("authorize failed", "error", err)
		c.stratumclient.Close()
		return
	}
}

func (c *Client) subscribeToDifficultyChanges() {
	c.stratumclient.SetNotificationHandler("mining.set_difficulty", func(params []interface{}) {
		if len(params) < 1 {
			c.log.Warnw("set_difficulty notification missing params")
			return
		}
		d, err := parseDifficulty(params[0])
		if err != nil {
			c.log.Warnw("invalid difficulty from pool", "error", err)
			return
		}
		c.mu.Lock()
		c.difficulty = d
		c.mu.Unlock()
	})
}

func (c *Client) subscribeToJobNotifications() {
	c.stratumclient.SetNotificationHandler("mining.notify", func(params []interface{}) {
		j, err := parseJob(params)
		if err != nil {
			c.log.Warnw("invalid job from pool", "error", err)
			return
		}
		c.mu.Lock()
		// A lower job_seq than the one we already hold means a
		// reordered/duplicate notification; ignore it rather than
		// regress to stale work.
		if c.haveJob && j.jobSeq < c.currentJob.jobSeq {
			c.mu.Unlock()
			return
		}
		c.currentJob = j
		c.haveJob = true
		c.mu.Unlock()
		c.log.Infow("new job", "job_id", j.id, "bnum", j.bnum)
	})
}

func parseDifficulty(v interface{}) (byte, error) {
	n, err := parseDecimalOrHex(v, 8)
	if err != nil {
		return 0, errors.Wrap(err, "parse difficulty")
	}
	return byte(n), nil
}

func parseTime0(v interface{}) (uint32, error) {
	n, err := parseDecimalOrHex(v, 32)
	if err != nil {
		return 0, errors.Wrap(err, "parse time0")
	}
	return uint32(n), nil
}

// parseDecimalOrHex parses a pool-supplied numeric field that may arrive
// as a JSON number or as a string in decimal, 0x-prefixed hexadecimal, or
// bare hexadecimal form (tried only when the string is not valid decimal),
// matching the wire format used for both diff and time0.
func parseDecimalOrHex(v interface{}, bitSize int) (uint64, error) {
	switch t := v.(type) {
	case float64:
		return uint64(t), nil
	case string:
		if strings.HasPrefix(t, "0x") {
			return strconv.ParseUint(t[2:], 16, bitSize)
		}
		n, err := strconv.ParseUint(t, 10, bitSize)
		if err != nil {
			n, err = strconv.ParseUint(t, 16, bitSize)
			if err != nil {
				return 0, err
			}
		}
		return n, nil
	default:
		return 0, errors.New("unexpected type")
	}
}

func parseJob(params []interface{}) (job, error) {
	if len(params) < 6 {
		return job{}, errors.New("wrong number of job parameters")
	}
	var j job
	var ok bool
	if j.id, ok = params[0].(string); !ok {
		return job{}, errors.New("bad job_id")
	}
	phash, err := stratum.HexStringToBytes(params[1])
	if err != nil || len(phash) != 32 {
		return job{}, errors.Wrap(err, "bad phash")
	}
	copy(j.phash[:], phash)

	bnumBytes, err := stratum.HexStringToBytes(params[2])
	if err != nil {
		return job{}, errors.Wrap(err, "bad bnum")
	}
	for _, b := range bnumBytes {
		j.bnum = j.bnum<<8 | uint64(b)
	}

	diff, err := parseDifficulty(params[3])
	if err != nil {
		return job{}, errors.Wrap(err, "bad difficulty")
	}
	j.difficulty = diff

	time0, err := parseTime0(params[4])
	if err != nil {
		return job{}, err
	}
	j.time0 = time0

	mroot, err := stratum.HexStringToBytes(params[5])
	if err != nil || len(mroot) != 32 {
		return job{}, errors.Wrap(err, "bad mroot")
	}
	copy(j.mroot[:], mroot)

	if len(params) >= 7 {
		if seq, ok := params[6].(float64); ok {
			j.jobSeq = uint64(seq)
		}
	}
	return j, nil
}

// CurrentJob returns the most recently notified job as a block trailer,
// along with the pool's current difficulty byte.
func (c *Client) CurrentJob() (trailer peach.Trailer, difficulty byte, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.haveJob {
		return peach.Trailer{}, 0, false
	}
	copy(trailer.Phash(), c.currentJob.phash[:])
	trailer.SetBnumUint64(c.currentJob.bnum)
	trailer.SetTime0(c.currentJob.time0)
	trailer.SetDifficulty(c.currentJob.difficulty)
	copy(trailer.Mroot(), c.currentJob.mroot[:])
	trailer.SetTcount(1)
	return trailer, c.difficulty, true
}

// SubmitSolution reports a solved trailer to the pool via mining.submit.
func (c *Client) SubmitSolution(trailer peach.Trailer) error {
	c.mu.Lock()
	jobID := c.currentJob.id
	user := c.wallet + "." + c.worker
	c.mu.Unlock()

	nonce := hex.EncodeToString(trailer.Nonce())
	var reply json.RawMessage
	err := c.stratumclient.Call("mining.submit", []string{user, jobID, nonce}, &reply)
	if err != nil {
		c.mu.Lock()
		c.rejectedShares++
		c.mu.Unlock()
		return errors.Wrap(err, "submit share")
	}
	c.mu.Lock()
	c.acceptedShares++
	c.mu.Unlock()
	c.log.Infow("share submitted", "result", string(reply))
	return nil
}

// Shares returns the running accepted/rejected share counters.
func (c *Client) Shares() (accepted, rejected uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acceptedShares, c.rejectedShares
}

// Close releases the underlying TCP connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stratumclient != nil {
		c.stratumclient.Close()
	}
}
