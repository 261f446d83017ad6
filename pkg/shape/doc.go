// Package shape exposes the public contracts for the loader and parser
// stages that turn declared type documents into the canonical TypeShape
// representation. Implementations live under internal/shape to keep
// format-specific dependencies hidden from consumers.
package shape
