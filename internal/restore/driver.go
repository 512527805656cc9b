package restore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danmuck/restorectl/internal/msbuild"
	"github.com/danmuck/restorectl/internal/tools"
	"github.com/rs/zerolog"
)

const (
	EnvSkipNonexistentOverride = "RESTORECTL_USE_SKIP_NONEXISTENT_TARGETS"
	EnvExtraArgs               = "RESTORECTL_MSBUILD_ARGS"
)

// Phase marks where an invocation is in its lifecycle.
type Phase string

const (
	PhaseCreated         Phase = "created"
	PhaseManifestWritten Phase = "manifest_written"
	PhaseRunning         Phase = "running"
	PhaseSucceeded       Phase = "succeeded"
	PhaseFailed          Phase = "failed"
	PhaseCancelled       Phase = "cancelled"
)

// DriverConfig captures the per-driver snapshot of process-wide settings.
// Verbose is sampled here once so concurrent invocations never observe a
// mid-run flip.
type DriverConfig struct {
	// TargetsPath is the restore targets file imported by every manifest.
	TargetsPath string
	Verbose     bool
	// Timeout bounds one invocation; zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
	// TempDir overrides the system temp directory when set.
	TempDir string
	// Getenv is the env lookup for the override and passthrough variables;
	// nil means os.Getenv.
	Getenv func(string) string
}

// Driver turns a project set into a dependency graph by running the
// external engine once per request. Each invocation owns its temp files,
// so drivers are safe for concurrent use as long as callers do not share
// output sinks.
type Driver struct {
	locator msbuild.Locator
	runner  tools.CommandRunner
	cfg     DriverConfig
	getenv  func(string) string
	log     zerolog.Logger
}

func NewDriver(locator msbuild.Locator, runner tools.CommandRunner, cfg DriverConfig, log zerolog.Logger) *Driver {
	getenv := cfg.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Driver{
		locator: locator,
		runner:  runner,
		cfg:     cfg,
		getenv:  getenv,
		log:     log,
	}
}

// Request describes one restore-graph computation.
type Request struct {
	// SolutionDir is the working directory of the spawned process.
	SolutionDir string
	// Projects are build-file paths, order preserved into the manifest.
	Projects      []string
	Configuration string
	Platform      string
	// Output receives the process stdout and stderr as produced. Must not
	// be shared with a concurrent invocation. Nil discards.
	Output io.Writer
}

// Result reports the terminal phase and, on success, the parsed graph.
type Result struct {
	Phase    Phase
	ExitCode int
	Graph    *GraphSpec
}

// RestoreGraph runs one invocation end to end. The returned result always
// carries a terminal phase; Graph is non-nil only on a zero exit code
// followed by a clean parse. Temp files are gone by the time this returns,
// on every path.
func (d *Driver) RestoreGraph(ctx context.Context, req Request) (Result, error) {
	res := Result{Phase: PhaseCreated}

	outFile, err := tools.NewTempFile(d.cfg.TempDir, "restorectl-dg-*.json")
	if err != nil {
		res.Phase = PhaseFailed
		return res, err
	}
	defer d.closeTemp(outFile)

	manifestFile, err := tools.NewTempFile(d.cfg.TempDir, "restorectl-restore-*.proj")
	if err != nil {
		res.Phase = PhaseFailed
		return res, err
	}
	defer d.closeTemp(manifestFile)

	bag, err := BuildRestoreProperties(outFile.Path(), req.Configuration, req.Platform)
	if err != nil {
		res.Phase = PhaseFailed
		return res, err
	}

	manifest, err := GenerateManifest(bag, req.Projects, d.cfg.TargetsPath)
	if err != nil {
		res.Phase = PhaseFailed
		return res, err
	}
	if err := os.WriteFile(manifestFile.Path(), manifest, 0o600); err != nil {
		res.Phase = PhaseFailed
		return res, fmt.Errorf("restore: write manifest file: %w", err)
	}
	res.Phase = PhaseManifestWritten

	cmd, err := msbuild.ResolveCommand(d.locator)
	if err != nil {
		res.Phase = PhaseFailed
		return res, err
	}

	args := BuildArguments(ArgumentInput{
		EngineAssembly:          cmd.EngineAssembly,
		ManifestPath:            manifestFile.Path(),
		Verbose:                 d.cfg.Verbose,
		SkipNonexistentOverride: d.getenv(EnvSkipNonexistentOverride),
		ExtraArgs:               d.getenv(EnvExtraArgs),
	})

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	sink := req.Output
	if sink == nil {
		sink = io.Discard
	}

	d.log.Debug().
		Str("command", cmd.Path).
		Str("manifest", manifestFile.Path()).
		Int("projects", len(req.Projects)).
		Msg("spawning restore graph build")

	res.Phase = PhaseRunning
	code, err := d.runner.Run(ctx, tools.Invocation{
		Path:   cmd.Path,
		Args:   args,
		Dir:    req.SolutionDir,
		Stdout: sink,
		Stderr: sink,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Phase = PhaseCancelled
			return res, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		res.Phase = PhaseFailed
		return res, err
	}

	res.ExitCode = code
	if code != 0 {
		res.Phase = PhaseFailed
		return res, &ExitError{Code: code}
	}

	graph, err := ReadGraphSpec(outFile.Path())
	if err != nil {
		res.Phase = PhaseFailed
		return res, err
	}

	res.Phase = PhaseSucceeded
	res.Graph = graph
	d.log.Debug().
		Int("graph_projects", len(graph.Projects)).
		Msg("restore graph parsed")
	return res, nil
}

func (d *Driver) closeTemp(f *tools.TempFile) {
	if err := f.Close(); err != nil {
		d.log.Warn().Err(err).Str("path", f.Path()).Msg("temp file cleanup failed")
	}
}
