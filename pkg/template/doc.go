// Package template implements the source template language used across
// srcgen: plain text interleaved with $-references that are resolved
// against named values at render time. Parsing produces an immutable
// Template that may be rendered concurrently; references chain member,
// method, and index accesses left to right, and ## begins a line
// comment. The Engine layers named template sets, lazy parsing, and
// caching on top of the single-template primitives.
package template
