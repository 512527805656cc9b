// Package msbuild resolves the external MSBuild engine and, off Windows,
// the mono interpreter that hosts it.
package msbuild

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// ToolsVersion is the fixed toolset identifier the engine is queried by.
const ToolsVersion = "15.0"

const EnvMonoPrefix = "MONO_PREFIX"

var (
	ErrEngineNotFound  = errors.New("msbuild: engine not found")
	ErrRuntimeNotFound = errors.New("msbuild: mono runtime not found")
)

// Locator abstracts host toolset discovery so resolution is testable
// without a real MSBuild installation.
type Locator interface {
	// EngineAssembly returns the managed MSBuild.dll for a toolset version.
	EngineAssembly(toolsVersion string) (string, bool)
	// EngineExecutable returns the native MSBuild.exe fallback.
	EngineExecutable(toolsVersion string) (string, bool)
	// RuntimePrefix returns the mono installation prefix.
	RuntimePrefix() (string, bool)
}

// Command is the resolved executable/interpreter pair. EngineAssembly is
// set only when Path is an interpreter and the engine must be its first
// argument.
type Command struct {
	Path           string
	EngineAssembly string
}

// ResolveCommand picks the launch command for the current host OS. The
// managed assembly wins over the native executable when both exist.
func ResolveCommand(loc Locator) (Command, error) {
	return resolveCommand(runtime.GOOS, loc)
}

func resolveCommand(goos string, loc Locator) (Command, error) {
	engine, ok := loc.EngineAssembly(ToolsVersion)
	if !ok {
		engine, ok = loc.EngineExecutable(ToolsVersion)
	}
	if !ok {
		return Command{}, ErrEngineNotFound
	}

	if goos == "windows" {
		return Command{Path: engine}, nil
	}

	prefix, ok := loc.RuntimePrefix()
	if !ok {
		return Command{}, ErrRuntimeNotFound
	}
	return Command{
		Path:           filepath.Join(prefix, "bin", "mono"),
		EngineAssembly: engine,
	}, nil
}

// HostLocator discovers the toolset from explicit configuration first and
// well-known install locations second.
type HostLocator struct {
	// AssemblyPath and ExecutablePath pin the engine outright when set.
	AssemblyPath   string
	ExecutablePath string
	// Prefix pins the mono installation; EnvMonoPrefix and the standard
	// framework locations are consulted otherwise.
	Prefix string
}

var monoPrefixCandidates = []string{
	"/Library/Frameworks/Mono.framework/Versions/Current",
	"/usr",
	"/usr/local",
}

func (l HostLocator) EngineAssembly(toolsVersion string) (string, bool) {
	if l.AssemblyPath != "" {
		return l.AssemblyPath, fileExists(l.AssemblyPath)
	}
	prefix, ok := l.RuntimePrefix()
	if !ok {
		return "", false
	}
	path := filepath.Join(prefix, "lib", "mono", "msbuild", toolsVersion, "bin", "MSBuild.dll")
	return path, fileExists(path)
}

func (l HostLocator) EngineExecutable(toolsVersion string) (string, bool) {
	if l.ExecutablePath != "" {
		return l.ExecutablePath, fileExists(l.ExecutablePath)
	}
	prefix, ok := l.RuntimePrefix()
	if !ok {
		return "", false
	}
	path := filepath.Join(prefix, "lib", "mono", "msbuild", toolsVersion, "bin", "MSBuild.exe")
	return path, fileExists(path)
}

func (l HostLocator) RuntimePrefix() (string, bool) {
	if l.Prefix != "" {
		return l.Prefix, true
	}
	if env := os.Getenv(EnvMonoPrefix); env != "" {
		return env, true
	}
	for _, prefix := range monoPrefixCandidates {
		if fileExists(filepath.Join(prefix, "bin", "mono")) {
			return prefix, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
