package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/restorectl/internal/config"
	"github.com/danmuck/restorectl/internal/msbuild"
	"github.com/danmuck/restorectl/internal/observability"
	"github.com/danmuck/restorectl/internal/restore"
	"github.com/danmuck/restorectl/internal/server"
	"github.com/danmuck/restorectl/internal/tools"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "restoresrv: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	fs := flag.NewFlagSet("restoresrv", flag.ContinueOnError)
	configPath := fs.String("config", "restoresrv.toml", "path to the service TOML config file")
	if err := fs.Parse(argv); err != nil {
		return err
	}

	_ = godotenv.Load()
	logger := observability.InitLogger("restoresrv")
	observability.RegisterMetrics()

	cfg, err := config.LoadRestoreConfig(*configPath)
	if err != nil {
		return err
	}
	log.Info().Str("path", *configPath).Msg("loaded restoresrv config")

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	driver := restore.NewDriver(
		msbuild.HostLocator{
			AssemblyPath:   cfg.Engine.AssemblyPath,
			ExecutablePath: cfg.Engine.ExecutablePath,
			Prefix:         cfg.Engine.MonoPrefix,
		},
		tools.ExecRunner{},
		restore.DriverConfig{
			TargetsPath: cfg.Restore.TargetsPath,
			Verbose:     cfg.Restore.Verbose,
			Timeout:     timeout,
			TempDir:     cfg.Restore.TempDir,
		},
		logger,
	)

	svc := server.New(server.Config{Addr: cfg.Serve.Addr}, driver, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return svc.Run(ctx)
}
