package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"heartbeat-agent/internal/agent"
	"heartbeat-agent/internal/collector/dstat"
	"heartbeat-agent/internal/collector/network"
	"heartbeat-agent/internal/collector/system"
	"heartbeat-agent/internal/config"
	"heartbeat-agent/internal/domain"
	"heartbeat-agent/internal/logger"
	"heartbeat-agent/internal/storage/identity"
	"heartbeat-agent/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := config.NewFlags("heartbeat")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(stdout, "Usage: heartbeat [options]\n\n%s", flags.Usage())
			return 0
		}
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 2
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}
	if err := flags.Apply(cfg); err != nil {
		fmt.Fprintf(stderr, "FATAL: invalid --tick: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	appLog := logger.New(cfg)

	store, err := openStore(cfg, appLog)
	if err != nil {
		appLog.Error("failed to open identity store", "data_dir", cfg.DataDir, "error", err)
		return 1
	}
	defer store.Close()

	if flags.PrintID {
		return printID(ctx, store, stdout, stderr)
	}

	info, err := system.NewCollector().Collect(ctx)
	if err != nil {
		appLog.Warn("host info incomplete", "error", err)
	}
	appLog.Info("heartbeat agent: starting...",
		"hostname", info.Hostname,
		"platform", info.Platform,
		"kernel", info.KernelVersion,
		"arch", info.Arch,
	)

	commandTimeout := time.Duration(cfg.CommandTimeout)
	sampler := agent.NewSampler(
		dstat.NewCollector(appLog, commandTimeout),
		network.NewCollector(cfg.Interface, appLog, commandTimeout),
	)

	a := agent.NewAgent(cfg, appLog, store, sampler, agent.NewClient(cfg), agent.NewLogUpdater(appLog))
	if err := a.Run(ctx); err != nil {
		appLog.Error("agent failed unexpectedly", "error", err)
		return 1
	}

	appLog.Info("agent stopped gracefully.")
	return 0
}

func openStore(cfg *config.Config, log logger.Logger) (domain.IdentityStore, error) {
	switch cfg.IdentityBackend {
	case config.BackendSQLite:
		return sqlite.NewIdentityStore(cfg.DataDir, log)
	default:
		return identity.NewFileStore(cfg.DataDir)
	}
}

func printID(ctx context.Context, store domain.IdentityStore, stdout, stderr io.Writer) int {
	id, ok, err := store.GetID(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}
	if !ok {
		fmt.Fprintln(stderr, "device is not registered yet")
		return 1
	}

	fmt.Fprintln(stdout, id)
	return 0
}
