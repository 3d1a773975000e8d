package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/logutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/jancona/pccc/turbo"
)

var (
	configArg      = pflag.StringP("config", "c", "", "INI run configuration (default: built-in parameters)")
	outputArg      = pflag.StringP("output", "o", "", "YAML results file (default Res/pccc_punctured_<perm_len>_<metric>.yaml)")
	seedArg        = pflag.Uint64("seed", 0, "Root random seed (0 = from config, or time if unset there)")
	workersArg     = pflag.IntP("workers", "w", 0, "Operating points processed in parallel (0 = from config)")
	metricsAddrArg = pflag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9117")
	isDebugArg     = pflag.Bool("debug", false, "Emit debug log messages")
	logDestArg     = pflag.String("log", "", "File for log (default stderr)")
	helpArg        = pflag.BoolP("help", "h", false, "Print arguments")
)

func main() {
	pflag.Parse()
	if *helpArg {
		pflag.Usage()
		return
	}
	setupLogging()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	sweep, err := turbo.NewSweep(cfg)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	if *metricsAddrArg != "" {
		sweep.Metrics = serveMetrics(*metricsAddrArg)
	}
	log.Printf("[INFO] PCCC rate %.4f, gens %v, K=%d, perm_len %d, %d iterations, %s, %d operating points, seed %d",
		sweep.Code.Rate, turbo.FormatGenerators(cfg.Generators), cfg.ConstraintLength, cfg.PermLen,
		cfg.Iterations, cfg.Metric, len(cfg.EbN0dB), cfg.Seed)

	res, err := sweep.Run()
	if err != nil {
		log.Fatalf("[ERROR] Sweep failed: %v", err)
	}
	if err := res.WriteTable(os.Stdout); err != nil {
		log.Printf("[ERROR] Writing table: %v", err)
	}
	if err := res.Save(cfg.Output); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Printf("[INFO] Results saved to %s", cfg.Output)
}

func loadConfig() (turbo.Config, error) {
	cfg := turbo.DefaultConfig()
	if *configArg != "" {
		var err error
		cfg, err = turbo.LoadConfig(*configArg)
		if err != nil {
			return cfg, fmt.Errorf("loading %s: %w", *configArg, err)
		}
	}
	if *seedArg != 0 {
		cfg.Seed = *seedArg
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if *workersArg != 0 {
		cfg.Workers = *workersArg
	}
	if *outputArg != "" {
		cfg.Output = *outputArg
	}
	if cfg.Output == "" {
		cfg.Output = fmt.Sprintf("Res/pccc_punctured_%d_%s.yaml", cfg.PermLen, cfg.Metric)
	}
	return cfg, nil
}

func serveMetrics(addr string) *turbo.Metrics {
	reg := prometheus.NewRegistry()
	m := turbo.NewMetrics(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		err := http.ListenAndServe(addr, mux)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] Metrics server: %v", err)
		}
	}()
	log.Printf("[INFO] Serving metrics on %s/metrics", addr)
	return m
}

func setupLogging() {
	var err error
	minLogLevel := "INFO"
	if *isDebugArg {
		minLogLevel = "DEBUG"
	}
	logWriter := os.Stderr
	if *logDestArg != "" {
		logWriter, err = os.OpenFile(*logDestArg, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Error opening log file, exiting: %v", err)
		}
	}

	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: logutils.LogLevel(minLogLevel),
		Writer:   logWriter,
	}
	log.SetOutput(filter)
	log.Print("[DEBUG] Debug is on")
}
