// Package middleware provides HTTP middleware for the Notes API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: turns panics into a 500 problem response
//   - Metrics: reports requests by chi route pattern
//   - VerifyJWT: requires a valid access token
//   - LoginLimiter.Middleware: limits login attempts per client IP
//
// # Authentication
//
// VerifyJWT answers 401 when the Authorization header is missing and 403
// when the token does not validate. Handlers behind it read the caller with
// GetClaims or GetUsername.
//
//	r.With(middleware.VerifyJWT(jwtService)).Get("/notes", h.List)
package middleware
