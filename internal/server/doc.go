// Package server provides HTTP routing, middleware and the listener lifecycle for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
//   - [Recoverer] turns panics into 500 responses
//   - [RequestLogger] logs method, path, status and duration through charm log
//   - [Instrument] records Prometheus request counters keyed by the matched route pattern
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [HealthHandler] is the smallest example.
//
// # Lifecycle
//
// [Serve] runs an [http.Server] with the configured timeouts until its context is canceled, then shuts
// down gracefully.
package server
