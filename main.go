// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/automaxprocs/maxprocs"

	"cellatomic/atomics"
	"cellatomic/internal/config"
	"cellatomic/internal/litmus"
	"cellatomic/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole command. It returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			_, _ = fmt.Fprintln(stderr, "\nNote: command arguments and CELLATOMIC_* environment variables override the config file.")
			return 0
		}

		return errExit(stderr, err)
	}

	v := newViper(fs)

	if v.GetBool("version") {
		_, _ = fmt.Fprintln(stdout, version.Print())
		_, _ = fmt.Fprintln(stdout)
		_, _ = fmt.Fprint(stdout, version.Modules())
		return 0
	}

	if err := setupLogger(v, stderr); err != nil {
		return errExit(stderr, err)
	}

	cfg, err := config.Resolve(v)
	if err != nil {
		return errExit(stderr, "failed to load config:", err)
	}

	if cfg.Output.NoColor {
		color.NoColor = true
	}

	orders, err := cfg.ParsedOrders()
	if err != nil {
		return errExit(stderr, "invalid --order:", err)
	}

	jobs, err := litmus.Plan(cfg.Litmus.Scenarios, orders)
	if err != nil {
		return errExit(stderr, "invalid --scenario:", err)
	}

	if runtime.GOOS == "linux" {
		if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			log.Debug().Msgf(format, args...)
		})); err != nil {
			log.Warn().Err(err).Msg("failed to set GOMAXPROCS automatically, consider setting it manually if you are running with cgroup")
		}
	}

	reg := prometheus.NewRegistry()
	runner := litmus.NewRunner(litmus.Params{
		Goroutines: cfg.Litmus.Goroutines,
		Iterations: cfg.Litmus.Iterations,
	}, cfg.Litmus.Parallel, litmus.NewMetrics(reg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	log.Info().Int("jobs", len(jobs)).Int("iterations", cfg.Litmus.Iterations).Msg("starting litmus run")

	results, err := runner.Run(ctx, jobs)
	if err != nil {
		return errExit(stderr, "litmus run aborted:", err)
	}

	return finish(stdout, stderr, results, cfg.Output, reg)
}

// finish reports results and writes metrics. Any forbidden outcome makes the
// exit status 1.
func finish(stdout, stderr io.Writer, results []litmus.Result, out config.Output, reg prometheus.Gatherer) int {
	passed := litmus.Report(stdout, results)

	if out.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(out.MetricsFile, reg); err != nil {
			return errExit(stderr, "failed to write metrics file:", err)
		}
	}

	if !passed {
		return 1
	}

	return 0
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("cellatomic", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.String("config-file", "", "path to a TOML config file")

	fs.StringSlice("scenario", nil, "scenario to run, repeatable (default all: "+
		strings.Join(lo.Map(litmus.Scenarios(), func(s litmus.Scenario, _ int) string { return s.Name }), ", ")+")")
	fs.StringSlice("order", nil, "memory order for ordered scenarios, repeatable (default all: "+
		strings.Join(lo.Map(atomics.Orders[:], func(o atomics.Order, _ int) string { return o.String() }), ", ")+")")
	fs.Int("goroutines", 0, "workers per scenario (default GOMAXPROCS)")
	fs.Int("iterations", config.Default().Litmus.Iterations, "iterations per worker")
	fs.Int("parallel", 1, "jobs to run at the same time")

	fs.String("metrics-file", "", "write prometheus text exposition to this file")
	fs.Bool("no-color", false, "disable colored output")

	fs.Bool("log-json", false, "log as json format")
	fs.String("log-level", "info", "log level")

	fs.Bool("version", false, "print build information and exit")

	return fs
}

func newViper(fs *pflag.FlagSet) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("CELLATOMIC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	lo.Must0(v.BindPFlags(fs), "failed to parse combine argument with env")

	return v
}

func errExit(stderr io.Writer, msg ...any) int {
	_, _ = fmt.Fprintln(stderr, msg...)
	return 1
}

func parseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}

	return zerolog.NoLevel, fmt.Errorf("unknown log level %q, only trace/debug/info/warn/error is allowed", s)
}

func setupLogger(v *viper.Viper, stderr io.Writer) error {
	logLevel, err := parseLogLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}

	// stdout carries the report.
	var w = stderr

	if !v.GetBool("log-json") {
		w = zerolog.ConsoleWriter{Out: stderr, NoColor: v.GetBool("no-color")}
	}

	log.Logger = log.Output(w).Level(logLevel)

	return nil
}
