package tools

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/restorectl/internal/testutil/testlog"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a posix shell")
	}
}

func TestExecRunnerZeroExit(t *testing.T) {
	testlog.Start(t)
	requireShell(t)

	var out bytes.Buffer
	code, err := ExecRunner{}.Run(context.Background(), Invocation{
		Path:   "/bin/sh",
		Args:   []string{"-c", "echo graph-ready"},
		Stdout: &out,
		Stderr: &out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 0 {
		t.Fatalf("unexpected exit code: %d", code)
	}
	if !strings.Contains(out.String(), "graph-ready") {
		t.Fatalf("stdout not streamed: %q", out.String())
	}
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	testlog.Start(t)
	requireShell(t)

	code, err := ExecRunner{}.Run(context.Background(), Invocation{
		Path: "/bin/sh",
		Args: []string{"-c", "exit 3"},
	})
	if err != nil {
		t.Fatalf("non-zero exit must not be a runner error: %v", err)
	}
	if code != 3 {
		t.Fatalf("unexpected exit code: %d", code)
	}
}

func TestExecRunnerStderrStreams(t *testing.T) {
	testlog.Start(t)
	requireShell(t)

	var errBuf bytes.Buffer
	_, err := ExecRunner{}.Run(context.Background(), Invocation{
		Path:   "/bin/sh",
		Args:   []string{"-c", "echo oops >&2"},
		Stderr: &errBuf,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errBuf.String(), "oops") {
		t.Fatalf("stderr not streamed: %q", errBuf.String())
	}
}

func TestExecRunnerCancellationKillsProcess(t *testing.T) {
	testlog.Start(t)
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := ExecRunner{}.Run(ctx, Invocation{
		Path: "/bin/sh",
		Args: []string{"-c", "sleep 30"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancellation did not terminate process promptly: %v", elapsed)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	testlog.Start(t)
	_, err := ExecRunner{}.Run(context.Background(), Invocation{
		Path: "/definitely/not/here",
	})
	if err == nil {
		t.Fatalf("expected start error for missing binary")
	}
}
