package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/robvanmieghem/go-opencl/cl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	peachalgo "github.com/lynxx1748/mochimo/algorithms/peach"
	clientpeach "github.com/lynxx1748/mochimo/clients/peach"
	"github.com/lynxx1748/mochimo/internal/config"
	"github.com/lynxx1748/mochimo/internal/logging"
	"github.com/lynxx1748/mochimo/peach"
)

// Version is the released version string of the miner.
var Version = "0.1-Dev"

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "mochimo-peach-miner",
		Short: "GPU miner for the Mochimo Peach proof-of-work algorithm",
		RunE: func(cmd *cobra.Command, args []string) error {
			if show, _ := cmd.Flags().GetBool("version"); show {
				fmt.Println(Version)
				return nil
			}
			return run(config.Load(v))
		},
	}
	rootCmd.Flags().Bool("version", false, "show version and exit")
	config.Bind(rootCmd, v)
	rootCmd.AddCommand(newCheckHashCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCheckHashCmd builds the checkhash subcommand, a CPU-only, cache-free
// way to recheck a nonce a GPU device or a pool share claimed solves a
// trailer, without needing the 1 GiB tile cache a live miner keeps
// resident.
func newCheckHashCmd() *cobra.Command {
	var trailerHex, phashHex, nonceHex string
	var diff uint8

	cmd := &cobra.Command{
		Use:   "checkhash",
		Short: "verify a nonce against a trailer and difficulty without a GPU",
		RunE: func(cmd *cobra.Command, args []string) error {
			trailerBytes, err := hex.DecodeString(trailerHex)
			if err != nil || len(trailerBytes) != peach.TrailerLen {
				return fmt.Errorf("trailer must be %d hex-encoded bytes", peach.TrailerLen)
			}
			phashBytes, err := hex.DecodeString(phashHex)
			if err != nil || len(phashBytes) != 32 {
				return fmt.Errorf("phash must be 32 hex-encoded bytes")
			}
			nonceBytes, err := hex.DecodeString(nonceHex)
			if err != nil || len(nonceBytes) != 32 {
				return fmt.Errorf("nonce must be 32 hex-encoded bytes")
			}

			var trailer peach.Trailer
			copy(trailer[:], trailerBytes)
			var nonce [32]byte
			copy(nonce[:], nonceBytes)

			if peach.VerifyNonce(&trailer, phashBytes, nonce, diff) {
				fmt.Println("ok: nonce satisfies difficulty")
				return nil
			}
			fmt.Println("fail: nonce does not satisfy difficulty")
			os.Exit(1)
			return nil
		},
	}
	cmd.Flags().StringVar(&trailerHex, "trailer", "", "160-byte block trailer, hex-encoded")
	cmd.Flags().StringVar(&phashHex, "phash", "", "32-byte previous block hash, hex-encoded")
	cmd.Flags().StringVar(&nonceHex, "nonce", "", "32-byte candidate nonce, hex-encoded")
	cmd.Flags().Uint8Var(&diff, "diff", 0, "difficulty byte to check against")
	cmd.MarkFlagRequired("trailer")
	cmd.MarkFlagRequired("phash")
	cmd.MarkFlagRequired("nonce")
	cmd.MarkFlagRequired("diff")
	return cmd
}

func run(cfg config.Config) error {
	log := logging.New(cfg.DevMode, cfg.LogLevel)
	defer log.Sync()

	devicesType := cl.DeviceTypeGPU
	if cfg.UseCPU {
		devicesType = cl.DeviceTypeAll
	}

	platforms, err := cl.GetPlatforms()
	if err != nil {
		return err
	}

	clDevices := make([]*cl.Device, 0, 4)
	for _, platform := range platforms {
		log.Infow("platform found", "name", platform.Name())
		platformDevices, err := cl.GetDevices(platform, devicesType)
		if err != nil {
			log.Warnw("enumerate devices failed", "platform", platform.Name(), "error", err)
			continue
		}
		for i, device := range platformDevices {
			log.Infow("device found", "index", i, "type", device.Type(), "name", device.Name())
			clDevices = append(clDevices, device)
		}
	}
	if len(clDevices) == 0 {
		return fmt.Errorf("no suitable opencl devices found")
	}

	client := clientpeach.NewClient(cfg.Pool, cfg.Wallet, cfg.Worker, log)
	go client.Start()

	miningDevices := make(map[int]*cl.Device)
	for i, device := range clDevices {
		if cfg.Excluded(i) {
			continue
		}
		miningDevices[i] = device
	}

	hashRateReports := make(chan *peachalgo.HashRateReport, len(miningDevices)*10)
	miner := &peachalgo.Miner{
		ClDevices:       miningDevices,
		HashRateReports: hashRateReports,
		Jobs:            client,
		Log:             log,
	}
	miner.Mine()

	rates := make([]float64, len(clDevices))
	for report := range hashRateReports {
		rates[report.MinerID] = report.HashRate
		accepted, rejected := client.Shares()
		fmt.Print("\r")
		var total float64
		for id, r := range rates {
			fmt.Printf("%d:%.1fH/s ", id, r)
			total += r
		}
		fmt.Printf("total:%.1fH/s shares:%d/%d  ", total, accepted, accepted+rejected)
	}
	return nil
}
