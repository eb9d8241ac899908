// Package httpserver provides the admin HTTP server.
//
// It is a small stdlib net/http server that runs next to the RESP
// listener and exposes:
//
//   - /metrics: Prometheus scrape endpoint, optionally behind a bearer token
//   - /health: liveness with build information
//   - /ready: readiness of the RESP listener
//
// Every route goes through the RequestID and Recover middlewares. Audit
// logging can be enabled per router.
package httpserver
