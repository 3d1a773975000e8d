package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/logutils"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jancona/pccc/turbo"
)

var (
	ebn0Arg   = pflag.Float64("ebn0", 1.0, "Channel Eb/N0 in dB for the rate 1/2 constituent code")
	sigmaAArg = pflag.String("sigma-a", "0:0.5:6", "A-priori LLR standard deviations, start:step:stop or a list")
	lenArg    = pflag.IntP("len", "n", 4096, "Information bits per block")
	blocksArg = pflag.IntP("blocks", "b", 10, "Blocks per a-priori point")
	binsArg   = pflag.Int("bins", 100, "Histogram bins")
	genArg    = pflag.String("gen", "07 05", "Generators in octal, feedback first")
	kArg      = pflag.IntP("constraint-length", "K", turbo.DefaultConstraintLength, "Constraint length")
	metricArg = pflag.String("metric", "maxlogMAP", "SISO metric (maxlogMAP or logMAP)")
	seedArg   = pflag.Uint64("seed", 0, "Random seed (0 = time)")
	outputArg = pflag.StringP("output", "o", "", "Also write the curve to this YAML file")
	debugArg  = pflag.Bool("debug", false, "Emit debug log messages")
	helpArg   = pflag.BoolP("help", "h", false, "Print arguments")
)

func main() {
	pflag.Parse()
	if *helpArg {
		pflag.Usage()
		return
	}
	minLogLevel := "INFO"
	if *debugArg {
		minLogLevel = "DEBUG"
	}
	log.SetOutput(&logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: logutils.LogLevel(minLogLevel),
		Writer:   os.Stderr,
	})

	gens, err := turbo.ParseGenerators(*genArg)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	metric, err := turbo.ParseMAPMetric(*metricArg)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	sigmaA, err := turbo.ParseRange(*sigmaAArg)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	seed := *seedArg
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Printf("[DEBUG] seed %d, %d a-priori points", seed, len(sigmaA))

	cfg := turbo.TransferConfig{
		Generators:       gens,
		ConstraintLength: *kArg,
		Metric:           metric,
		Length:           *lenArg,
		Blocks:           *blocksArg,
		EbN0dB:           *ebn0Arg,
		SigmaA:           sigmaA,
		Bins:             *binsArg,
	}
	start := time.Now()
	points, err := turbo.TransferCurve(cfg, rand.New(rand.NewPCG(seed, 0)))
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Printf("[INFO] %d points in %s", len(points), time.Since(start).Round(time.Millisecond))

	fmt.Printf("%8s %8s %8s %8s\n", "sigmaA", "IA", "IA(hist)", "IE")
	for _, p := range points {
		fmt.Printf("%8.3f %8.5f %8.5f %8.5f\n", p.SigmaA, p.IA, p.IAMeasured, p.IE)
	}

	if *outputArg != "" {
		if err := save(*outputArg, cfg, seed, points); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
	}
}

func save(path string, cfg turbo.TransferConfig, seed uint64, points []turbo.TransferPoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out := struct {
		EbN0dB     float64               `yaml:"ebn0_db"`
		Generators []string              `yaml:"generators"`
		K          int                   `yaml:"constraint_length"`
		Metric     string                `yaml:"map_metric"`
		Length     int                   `yaml:"length"`
		Blocks     int                   `yaml:"blocks"`
		Bins       int                   `yaml:"bins"`
		Seed       uint64                `yaml:"seed"`
		Points     []turbo.TransferPoint `yaml:"points"`
	}{cfg.EbN0dB, turbo.FormatGenerators(cfg.Generators), cfg.ConstraintLength, cfg.Metric.String(),
		cfg.Length, cfg.Blocks, cfg.Bins, seed, points}
	b, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode EXIT curve: %w", err)
	}
	return os.WriteFile(path, b, 0644)
}
