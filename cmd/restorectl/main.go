package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/restorectl/internal/msbuild"
	"github.com/danmuck/restorectl/internal/observability"
	"github.com/danmuck/restorectl/internal/restore"
	"github.com/danmuck/restorectl/internal/tools"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "restorectl: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	fs := flag.NewFlagSet("restorectl", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a restorectl TOML config file")
	solutionDir := fs.String("solution", ".", "solution base directory, working dir of the engine")
	configuration := fs.String("configuration", "", "active configuration name")
	platform := fs.String("platform", "", "active platform name")
	targets := fs.String("targets", "", "restore targets file imported by the manifest")
	verbose := fs.Bool("verbose", false, "diagnostic engine verbosity")
	outPath := fs.String("out", "", "write the parsed dependency graph as JSON to this path")
	if err := fs.Parse(argv); err != nil {
		return err
	}
	projects := fs.Args()
	if len(projects) == 0 {
		return fmt.Errorf("no project paths given")
	}

	// .env is optional; missing files are fine.
	_ = godotenv.Load()
	observability.InitLogger("restorectl")

	cfg := defaultSettings()
	if *configPath != "" {
		loaded, err := loadSettings(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded restorectl config")
	}
	if *targets != "" {
		cfg.targetsPath = *targets
	}
	if *verbose {
		cfg.verbose = true
	}

	driver := restore.NewDriver(
		msbuild.HostLocator{
			AssemblyPath:   cfg.assemblyPath,
			ExecutablePath: cfg.executablePath,
			Prefix:         cfg.monoPrefix,
		},
		tools.ExecRunner{},
		restore.DriverConfig{
			TargetsPath: cfg.targetsPath,
			Verbose:     cfg.verbose,
			Timeout:     cfg.timeout,
			TempDir:     cfg.tempDir,
		},
		log.Logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := driver.RestoreGraph(ctx, restore.Request{
		SolutionDir:   *solutionDir,
		Projects:      projects,
		Configuration: *configuration,
		Platform:      *platform,
		Output:        os.Stderr,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("phase", string(res.Phase)).
		Int("projects", len(res.Graph.Projects)).
		Msg("restore graph computed")

	if *outPath != "" {
		data, err := json.MarshalIndent(res.Graph, "", "  ")
		if err != nil {
			return fmt.Errorf("encode graph: %w", err)
		}
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}
		return nil
	}

	for _, path := range res.Graph.ProjectPaths() {
		fmt.Println(path)
	}
	return nil
}
