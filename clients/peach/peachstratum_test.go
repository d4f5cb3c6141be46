package peach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lynxx1748/mochimo/clients/stratum"
)

// notifyScenarioParams is the literal mining.notify payload named by the
// pool wire format: all-zero phash/bnum/mroot, difficulty "1c" (hex,
// unprefixed), time0 "0", and a clean_jobs flag in the trailing slot.
func notifyScenarioParams() []interface{} {
	zero32 := strings.Repeat("00", 32)
	zero8 := strings.Repeat("00", 8)
	return []interface{}{"j1", zero32, zero8, "1c", "0", zero32, true}
}

func TestParseDifficultyHexAndDecimal(t *testing.T) {
	d, err := parseDifficulty("1c")
	require.NoError(t, err)
	assert.Equal(t, byte(0x1c), d)

	d, err = parseDifficulty(float64(30))
	require.NoError(t, err)
	assert.Equal(t, byte(30), d)

	_, err = parseDifficulty(true)
	assert.Error(t, err)
}

func TestParseTime0DecimalString(t *testing.T) {
	tm, err := parseTime0("0")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), tm)
}

func TestParseJobScenario(t *testing.T) {
	j, err := parseJob(notifyScenarioParams())
	require.NoError(t, err)

	assert.Equal(t, "j1", j.id)
	assert.Equal(t, [32]byte{}, j.phash)
	assert.Equal(t, uint64(0), j.bnum)
	assert.Equal(t, byte(0x1c), j.difficulty)
	assert.Equal(t, uint32(0), j.time0)
	assert.Equal(t, [32]byte{}, j.mroot)
}

func TestParseJobRejectsTooFewParams(t *testing.T) {
	_, err := parseJob([]interface{}{"j1"})
	assert.Error(t, err)
}

func TestSubscribeToJobNotificationsUpdatesCurrentJob(t *testing.T) {
	c := &Client{
		wallet:        "wallet",
		worker:        "worker",
		log:           zap.NewNop().Sugar(),
		stratumclient: &stratum.Client{},
	}
	c.subscribeToJobNotifications()

	_, _, ok := c.CurrentJob()
	assert.False(t, ok, "no job should be present before the first mining.notify")

	c.stratumclient.Dispatch("mining.notify", notifyScenarioParams())

	trailer, diff, ok := c.CurrentJob()
	require.True(t, ok)
	assert.Equal(t, byte(0), diff) // mining.set_difficulty never fired in this scenario
	assert.Equal(t, byte(0x1c), trailer.Difficulty())
	assert.Equal(t, uint32(0), trailer.Time0())
	assert.Equal(t, uint32(1), trailer.Tcount())
}

func TestSubscribeToDifficultyChangesUpdatesDifficulty(t *testing.T) {
	c := &Client{
		wallet:        "wallet",
		worker:        "worker",
		log:           zap.NewNop().Sugar(),
		stratumclient: &stratum.Client{},
	}
	c.subscribeToDifficultyChanges()

	c.stratumclient.Dispatch("mining.set_difficulty", []interface{}{"1c"})

	c.mu.Lock()
	d := c.difficulty
	c.mu.Unlock()
	assert.Equal(t, byte(0x1c), d)
}
