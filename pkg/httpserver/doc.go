// Package httpserver provides an http.Server wrapper with env-driven
// configuration, graceful shutdown on context cancellation or OS signals,
// and a probe handler for liveness/readiness checks.
package httpserver
