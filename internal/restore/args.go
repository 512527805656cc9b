package restore

import "strings"

// Fixed MSBuild argument surface for the restore-graph target.
const (
	targetRestoreGraph  = "/t:GenerateRestoreGraphFile"
	flagNoLogo          = "/nologo"
	flagNoNodeReuse     = "/nr:false"
	verbosityDiagnostic = "/v:diagnostic"
	verbosityQuiet      = "/v:q"
)

// Stability overrides forcing serial restore execution. Older engines
// combine parallel execution with continue-on-error incorrectly, so serial
// is the default; the override env var opts into the newer behavior.
const (
	propBuildInParallelOff       = "RestoreBuildInParallel"
	propSkipNonexistentOff       = "RestoreUseSkipNonexistentTargets"
	skipNonexistentOverrideValue = "true"
)

// ArgumentInput carries everything argument assembly depends on. The two
// env-derived strings are passed in raw so the builder never reads global
// state.
type ArgumentInput struct {
	// EngineAssembly is set only when the command is an interpreter and the
	// engine must be its first argument.
	EngineAssembly string
	ManifestPath   string
	Verbose        bool
	// SkipNonexistentOverride is the raw override env value; equals-fold
	// "true" drops both stability overrides.
	SkipNonexistentOverride string
	// ExtraArgs is the raw passthrough env value, appended verbatim.
	ExtraArgs string
}

// BuildArguments assembles the ordered MSBuild argument list.
func BuildArguments(in ArgumentInput) []string {
	args := make([]string, 0, 10)
	if in.EngineAssembly != "" {
		args = append(args, in.EngineAssembly)
	}
	args = append(args, in.ManifestPath, targetRestoreGraph, flagNoLogo, flagNoNodeReuse)

	if in.Verbose {
		args = append(args, verbosityDiagnostic)
	} else {
		args = append(args, verbosityQuiet)
	}

	if !strings.EqualFold(strings.TrimSpace(in.SkipNonexistentOverride), skipNonexistentOverrideValue) {
		args = append(args,
			PropertyArgument(propBuildInParallelOff, "False"),
			PropertyArgument(propSkipNonexistentOff, "False"),
		)
	}

	args = append(args, splitRawArgs(in.ExtraArgs)...)
	return args
}

// PropertyArgument renders a /p: override, quoting the value when MSBuild's
// command parser would otherwise split it.
func PropertyArgument(name, value string) string {
	return "/p:" + name + "=" + quoteValue(value)
}

// quoteValue wraps a value in double quotes when it contains whitespace or
// characters the engine's command parser treats specially. MSBuild strips
// the quotes when reading the property.
func quoteValue(v string) string {
	if !strings.ContainsAny(v, " \t\"&|<>^;") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

// splitRawArgs tokenizes the passthrough string on unquoted whitespace.
// Tokens keep their original characters, quotes included, so nothing is
// re-quoted on the way through.
func splitRawArgs(raw string) []string {
	var out []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
