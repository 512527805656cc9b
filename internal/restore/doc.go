// Package restore owns restore-graph invocation concerns.
//
// Ownership boundary:
// - restore property derivation
// - ephemeral manifest generation
// - MSBuild argument assembly
// - invocation lifecycle and result parsing
//
// Lifecycle order:
// - properties -> manifest -> resolve -> spawn -> parse
//
// - every invocation owns its manifest and output temp files.
//
// - the output file is read only after a zero exit code.
//
// restore does not own engine discovery; see internal/msbuild.
package restore
