// Package config manages application configuration for the Notes API.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// named by CONFIG_FILE, then environment variables. Validate reports every
// problem at once.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: port, environment, timeouts, CORS origins
//   - DatabaseConfig: SurrealDB connection and circuit breaker
//   - AuthConfig: token secrets and lifetimes, refresh cookie, AUTH_ENABLED
//   - LoginLimitConfig: login attempts per window per client IP
//
// # Environment Variables
//
//	SERVER_PORT            - HTTP server port (default: 3500)
//	SERVER_ENV             - development, production or test
//	CORS_ALLOWED_ORIGINS   - comma separated origins
//	DB_HOST, DB_PORT       - SurrealDB address
//	DB_NAMESPACE           - SurrealDB namespace
//	DB_DATABASE            - SurrealDB database
//	DB_USER, DB_PASSWORD   - SurrealDB root credentials
//	DB_BREAKER_ENABLED     - wrap the store in a circuit breaker
//	AUTH_ENABLED           - require access tokens on /notes and /users
//	ACCESS_TOKEN_SECRET    - HS256 secret for access tokens
//	REFRESH_TOKEN_SECRET   - HS256 secret for refresh tokens
//	ACCESS_TOKEN_TTL       - access token lifetime (default: 15m)
//	REFRESH_TOKEN_TTL      - refresh token lifetime (default: 168h)
//	AUTH_COOKIE_SECURE     - mark the refresh cookie Secure
//	LOGIN_LIMIT_ATTEMPTS   - login attempts per window (default: 5)
//	LOGIN_LIMIT_WINDOW     - login limiter window (default: 60s)
package config
