// Package orchestrator wires the registry → widget inference → transformer →
// renderer sequence behind a single Generate call.
package orchestrator
