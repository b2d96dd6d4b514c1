// Package config resolves process configuration from the environment.
//
// Values come from WORDLE_* variables (a .env file is loaded first by the
// command) and may be overridden by command-line flags. The resulting Config
// is passed explicitly to the API client, the websocket dialer and the
// reference server.
//
// Variables:
//   - WORDLE_SERVER_URL - game server base URL (default http://localhost:8080)
//   - WORDLE_HTTP_TIMEOUT - request timeout for discovery and create (default 10s)
//   - WORDLE_COOLDOWN - pause after the player's own guess (default 2s)
//   - WORDLE_LOG_LEVEL, WORDLE_LOG_FILE - logging
//   - WORDLE_LISTEN_ADDR, CORS_ORIGIN - reference server
//   - NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN - public tunnel for the reference server
package config
