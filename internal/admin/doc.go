// Package admin exposes the dispatch core's operator surface over HTTP:
// target registration, drain/undrain, runtime strategy swaps, a dispatch
// endpoint and status/metrics views. Draining is the operator write path for
// administrative availability; the health monitor never touches that flag.
package admin
