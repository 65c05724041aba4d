// Package registry owns the mutable collection of dispatch targets. It
// preserves insertion order, deduplicates by target name, and hands out
// copy-on-read snapshots so callers can iterate while the health monitor
// mutates target state concurrently.
package registry
