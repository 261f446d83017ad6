// Package orchestrator wires the loader → parser → binding resolver →
// template engine → sink pipeline behind a single entry point, providing
// dependency injection friendly options for consumers that want to swap
// individual stages.
package orchestrator
