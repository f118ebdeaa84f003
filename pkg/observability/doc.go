// Package observability exposes Prometheus instrumentation for the
// resolution pipeline and action dispatch.
package observability
