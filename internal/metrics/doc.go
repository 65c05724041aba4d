// Package metrics collects dispatch and health statistics through a buffered
// event channel, keeping the hot dispatch path free of lock contention. A
// snapshot of the aggregated counters is exposed as JSON for the admin plane.
package metrics
