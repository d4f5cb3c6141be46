// Package peach drives one or more OpenCL devices against a Peach mining
// job source, reporting hashrate and submitting solutions as they are
// found, one goroutine per device.
package peach

import (
	"time"

	"github.com/robvanmieghem/go-opencl/cl"
	"go.uber.org/zap"

	clientpeach "github.com/lynxx1748/mochimo/clients/peach"
	"github.com/lynxx1748/mochimo/peach"
)

// HashRateReport is emitted periodically by each device goroutine.
type HashRateReport struct {
	MinerID  int
	HashRate float64
}

// Miner fans a job source out across a set of OpenCL devices.
type Miner struct {
	ClDevices       map[int]*cl.Device
	HashRateReports chan *HashRateReport
	Jobs            clientpeach.JobProvider
	Log             *zap.SugaredLogger
}

// Mine spawns one goroutine per device, each pumping jobs and solutions
// between its device and the job source, and returns.
func (m *Miner) Mine() {
	for minerID, device := range m.ClDevices {
		sdm := &singleDeviceMiner{
			id:       minerID,
			clDevice: device,
			reports:  m.HashRateReports,
			jobs:     m.Jobs,
			log:      m.Log,
		}
		go sdm.run()
	}
}

type singleDeviceMiner struct {
	id       int
	clDevice *cl.Device
	reports  chan *HashRateReport
	jobs     clientpeach.JobProvider
	log      *zap.SugaredLogger
}

func (s *singleDeviceMiner) run() {
	s.log.Infow("initializing device", "id", s.id, "name", s.clDevice.Name())

	dev := peach.NewDevice(s.id, s.clDevice)
	if err := dev.Init(); err != nil {
		s.log.Errorw("device init failed", "id", s.id, "error", err)
		return
	}
	defer dev.Release()

	s.log.Infow("device initialized", "id", s.id, "name", s.clDevice.Name())

	var lastSolved peach.Trailer
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		trailer, diff, ok := s.jobs.CurrentJob()
		if !ok {
			continue
		}

		solved, err := dev.Step(&trailer, diff, &lastSolved)
		if err != nil {
			s.log.Errorw("device step failed", "id", s.id, "error", err)
			return
		}
		if solved {
			s.log.Infow("solution found", "id", s.id)
			go func(sol peach.Trailer) {
				if err := s.jobs.SubmitSolution(sol); err != nil {
					s.log.Errorw("submit failed", "id", s.id, "error", err)
				}
			}(lastSolved)
		}

		s.reports <- &HashRateReport{MinerID: s.id, HashRate: dev.HashesPerSecond()}
	}
}
