// Package http provides the bridge's read-only ops API.
//
// Routes:
//   - GET /                   service identity
//   - GET /health             sessions, pending commands, breaker state
//   - GET /health/inference   probes the inference service
//   - GET /sessions           connected game clients
//   - GET /whitelist          accepted command base tokens
//   - GET /metrics            Prometheus metrics
package http
