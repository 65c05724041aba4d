// Package httpserver wraps http.Server with listen-address validation and
// graceful shutdown for the admin control plane.
package httpserver
