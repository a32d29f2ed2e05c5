// Package orchestrator wires the directive → select/merge → render → write
// pipeline for a single data file. It routes every declared generator spec to
// single or per-key output and reports one outcome per document.
package orchestrator
