// cmd/redrecon/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"redrecon/internal/adapters/output"
	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/core/usecases"
	"redrecon/internal/platform/config"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/metrics"
	"redrecon/internal/platform/netclient"
	"redrecon/internal/platform/registry"
	"redrecon/internal/platform/ui"
	"redrecon/internal/platform/validator"
	"redrecon/internal/platform/workerpool"

	// Registro de probes vía init()
	_ "redrecon/internal/probes/crtsh"
	_ "redrecon/internal/probes/dnsresolve"
	_ "redrecon/internal/probes/hackertarget"
	_ "redrecon/internal/probes/portscan"
	_ "redrecon/internal/probes/whois"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Códigos de salida.
const (
	exitOK     = 0
	exitReport = 1
	exitConfig = 2
)

// exitError transporta el código de salida hasta main.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	os.Exit(exitCode(cmd.Execute()))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitConfig
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "redrecon -t <domain>",
		Short:         "Concurrent reconnaissance against a single domain",
		Long:          "redrecon runs every registered probe (certificate transparency, passive DNS, resolver, WHOIS, TCP port sweep) concurrently against one target and writes HTML/JSON/YAML reports.",
		Example:       config.Examples,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				config.PrintVersion(stdout, version, commit, date)
				return nil
			}

			cfg, err := config.Load(viper.New(), cmd.Flags())
			if err != nil {
				fmt.Fprintf(stderr, "Error: configuration load failed: %v\n", err)
				return &exitError{code: exitConfig, err: err}
			}
			if cfg.Target == "" {
				fmt.Fprintln(stderr, "Error: target domain is required")
				fmt.Fprintln(stderr, "Usage: redrecon -t <domain>")
				return &exitError{code: exitConfig, err: domain.ErrEmptyTarget}
			}

			ctx, cancel := rootContextWithSignals()
			defer cancel()

			return runScan(ctx, cfg, stdout)
		},
	}

	config.BindFlags(cmd.Flags())
	cmd.Flags().BoolP("version", "v", false, "Print version information and exit")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetUsageTemplate(cmd.UsageTemplate() + "\n" + config.EnvHelp + "\n")

	cmd.AddCommand(newProbesCmd(stdout))
	return cmd
}

// runScan ejecuta el flujo completo: probes, escaneo, reportes y métricas.
func runScan(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	logger := logx.NewWithOptions(logx.Options{
		Level:  logx.ParseLevel(cfg.Log.Level),
		Format: logx.ParseFormat(cfg.Log.Format),
	})

	logger.Info("redrecon starting",
		"version", version,
		"commit", commit,
		"target", cfg.Target,
		"workers", cfg.Workers,
	)

	if js, err := cfg.ToJSON(); err == nil {
		logger.Debug("effective configuration", "config", js)
	}
	if !validator.IsHostname(validator.CleanHost(cfg.Target)) {
		logger.Warn("target does not look like a hostname", "target", cfg.Target)
	}
	for _, key := range unknownProbeKeys(cfg.Probes) {
		logger.Warn("configuration names an unregistered probe", "key", key)
	}

	presenter := buildPresenter(cfg, stdout)

	pool := workerpool.NewWorkerPool(workerpool.WorkerPoolConfig{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	pool.Start()
	defer pool.Stop()
	stats := pool.Stats()
	logger.Debug("worker pool ready", "workers", stats.Workers, "queued", stats.QueueSize)

	probes := registry.Global().Discover(registry.NamespaceRecon, cfg.Probes, registry.Env{
		Logger: logger,
		Pool:   pool,
	})
	if len(probes) == 0 {
		presenter.Error(ui.MsgNoProbes)
		logger.Err(domain.ErrNoProbes, "phase", "discovery")
		_ = presenter.Close()
		return &exitError{code: exitConfig, err: domain.ErrNoProbes}
	}

	client := netclient.New(netclient.Config{
		MaxConnections:     cfg.HTTP.MaxConnections,
		Timeout:            cfg.HTTP.Timeout,
		UserAgent:          cfg.HTTP.UserAgent,
		Proxy:              cfg.HTTP.Proxy,
		InsecureSkipVerify: cfg.HTTP.InsecureSkipVerify,
		RateLimit:          cfg.HTTP.RateLimit,
		RateLimitBurst:     cfg.HTTP.RateLimitBurst,
	}, logger)

	observers := []ports.Notifier{ui.NewProgressNotifier(presenter, version)}

	var recorder *metrics.Recorder
	if cfg.Metrics.File != "" {
		r, err := metrics.NewRecorder()
		if err != nil {
			logger.Warn("metrics disabled", "error", err.Error())
		} else {
			recorder = r
			observers = append(observers, recorder)
		}
	}
	defer func() {
		for _, o := range observers {
			if err := o.Close(); err != nil {
				logger.Warn("failed to close observer", "error", err.Error())
			}
		}
	}()

	scanner := usecases.NewScanner(usecases.ScannerOptions{
		Probes:      probes,
		Client:      client,
		Logger:      logger,
		Observers:   observers,
		ScanTimeout: cfg.ScanTimeout,
	})

	run, scanErr := scanner.Scan(ctx, cfg.Target)
	if scanErr != nil && !errors.Is(scanErr, domain.ErrScanInterrupted) {
		logger.Err(scanErr, "phase", "scan")
		presenter.Error(scanErr.Error())
		return &exitError{code: exitConfig, err: scanErr}
	}

	paths, err := output.Write(cfg.OutputDir, cfg.Formats, output.NewInput(run))
	for _, p := range paths {
		presenter.Info("Report saved: " + p)
	}
	if err != nil {
		logger.Err(err, "phase", "output")
		presenter.Error(err.Error())
		return &exitError{code: exitReport, err: err}
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.Metrics.File); err != nil {
			logger.Warn("failed to write metrics", "file", cfg.Metrics.File, "error", err.Error())
		}
	}

	logger.Info("redrecon finished",
		"scan_id", run.ID,
		"elapsed_ms", run.Elapsed().Milliseconds(),
		"sources", len(run.Results),
		"failed", len(run.Failed()),
		"interrupted", run.Interrupted,
	)
	return nil
}

// unknownProbeKeys retorna, ordenadas, las claves de configuración que no
// corresponden a ninguna probe registrada.
func unknownProbeKeys(probes map[string]ports.ProbeConfig) []string {
	var unknown []string
	for key := range probes {
		if !registry.Global().IsRegistered(registry.NamespaceRecon, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// buildPresenter elige la salida de terminal según --ui.
func buildPresenter(cfg config.Config, stdout io.Writer) ui.Presenter {
	switch cfg.UI {
	case config.UIRaw:
		return ui.NewRawPresenterWithWriter(ui.LogFormat(cfg.Log.Format), stdout)
	case config.UIQuiet:
		return ui.NewNoopPresenter()
	default:
		return ui.NewPTermPresenter()
	}
}

// rootContextWithSignals crea el contexto raíz cancelado por SIGINT/SIGTERM.
// El límite global opcional lo aplica el Scanner (--scan-timeout).
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		baseCancel()
	}
	return base, cleanup
}
