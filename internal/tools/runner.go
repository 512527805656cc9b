package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Invocation describes one external process run.
type Invocation struct {
	Path   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner abstracts external process execution for the restore driver.
type CommandRunner interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// tools command-runner implementation backed by os/exec. Output streams to
// the invocation writers as the process produces it. On context
// cancellation the process is killed, reaped, and the context error is
// returned; otherwise the process exit code is returned with a nil error.
func (ExecRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	cmd := exec.Command(inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("tools: start %s: %w", inv.Path, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return -1, ctx.Err()
	case err := <-done:
		if err == nil {
			return 0, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("tools: wait %s: %w", inv.Path, err)
	}
}
