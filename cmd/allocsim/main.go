// Command allocsim applies a workload of create and delete operations to a
// simulated disk and prints the disk after every operation.
//
// The workload is either a single configuration file:
//
//	allocsim --config run.yaml
//
// or the two text files of the classic format:
//
//	allocsim --processes processes.txt --files files.txt
package main

import (
	"fmt"
	"io"
	"os"

	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	alloc "github.com/lance6716/file-allocation-demo"
	"github.com/lance6716/file-allocation-demo/internal/config"
	"github.com/lance6716/file-allocation-demo/internal/logger"
	"github.com/lance6716/file-allocation-demo/internal/metrics"
	"github.com/lance6716/file-allocation-demo/internal/report"
	"github.com/lance6716/file-allocation-demo/internal/workload"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		var stacked *goerrors.Error
		if logger.Enabled(logger.LevelDebug) && errors.As(err, &stacked) {
			fmt.Fprintln(os.Stderr, stacked.ErrorStack())
		}
		os.Exit(1)
	}
}

type options struct {
	configPath    string
	processesPath string
	filesPath     string
	logLevel      string
	metricsOut    string
	emitYAML      bool
	verify        bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("allocsim", pflag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML or TOML file describing the whole run")
	fs.StringVar(&o.processesPath, "processes", "", "Processes file of the text format")
	fs.StringVar(&o.filesPath, "files", "", "Disk and operations file of the text format")
	fs.StringVar(&o.logLevel, "log-level", "", "Override the log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&o.metricsOut, "metrics-out", "", "Write Prometheus metrics to this file when the run ends")
	fs.BoolVar(&o.emitYAML, "emit-yaml", false, "Print the loaded run as YAML instead of running it")
	fs.BoolVar(&o.verify, "verify", false, "Check the disk invariants after every operation")
	if err := fs.Parse(args); err != nil {
		return o, errors.WithStack(err)
	}

	if fs.NArg() != 0 {
		return o, errors.Errorf("unexpected arguments: %v", fs.Args())
	}
	textFormat := o.processesPath != "" || o.filesPath != ""
	switch {
	case o.configPath != "" && textFormat:
		return o, errors.New("--config cannot be combined with --processes or --files")
	case o.configPath == "" && !textFormat:
		return o, errors.New("either --config or both --processes and --files are required")
	case textFormat && (o.processesPath == "" || o.filesPath == ""):
		return o, errors.New("--processes and --files must be given together")
	}
	return o, nil
}

func loadConfig(o options) (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	return workload.Load(o.processesPath, o.filesPath)
}

func setupLogging(cfg config.LoggingConfig, levelOverride string) error {
	level := cfg.Level
	if levelOverride != "" {
		if _, err := logger.ParseLevel(levelOverride); err != nil {
			return err
		}
		level = levelOverride
	}
	logger.SetLevel(level)
	if err := logger.SetFormat(cfg.Format); err != nil {
		return err
	}
	return logger.SetOutput(cfg.Output)
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	if o.emitYAML {
		return config.Encode(cfg, stdout)
	}

	if err := setupLogging(cfg.Logging, o.logLevel); err != nil {
		return err
	}
	defer func() {
		_ = logger.Close()
	}()

	metricsOut := cfg.Metrics.Textfile
	if o.metricsOut != "" {
		metricsOut = o.metricsOut
	}
	diskCfg := cfg.DiskConfig()
	printer := report.NewPrinter(stdout)
	observer := &report.LoggingObserver{Verify: o.verify}
	observers := []alloc.Observer{printer, observer}
	if cfg.Metrics.Enabled || metricsOut != "" {
		metrics.InitRegistry()
		observers = append(observers, metrics.NewAllocationMetrics(diskCfg.Strategy))
	}

	sim, err := alloc.NewSimulator(diskCfg, cfg.ProcessSpecs(), observers...)
	if err != nil {
		return err
	}
	logger.Info("running %d operations on a %s disk of %d blocks",
		len(cfg.Operations), diskCfg.Strategy, diskCfg.BlockCount)

	printer.Header(sim.Strategy(), sim.Disk())
	results := sim.Run(cfg.OperationList())
	printer.Summary(sim, results)
	if err := printer.Err(); err != nil {
		return err
	}

	if metricsOut != "" {
		if err := metrics.WriteTextfile(metricsOut); err != nil {
			return err
		}
		logger.Info("metrics written to %s", metricsOut)
	}
	if observer.Violations > 0 {
		return errors.Errorf("disk invariants violated after %d operations", observer.Violations)
	}
	return nil
}
