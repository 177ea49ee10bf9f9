// Package server exposes the latest round of probe results over HTTP.
//
// It is optional and off by default; the terminal dashboard does not
// depend on it. Two endpoints are served:
//
//   - REST API: JSON snapshot of the latest round at "/api/status"
//   - Server-Sent Events: one event per completed round at "/api/sse"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
