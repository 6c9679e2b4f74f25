// Package config loads runtime configuration for the userdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with USERDESK_, merged with a dotenv
//     file (-env, or ./.env when present). Process variables win over the
//     file.
//  4. Command-line flags, which override everything before them.
//
// Supported flags
//
//	-a string   base URL of the users REST API
//	-d int      filter debounce window (milliseconds)
//	-t int      request timeout (seconds)
//	-p int      concurrent requests for bulk delete
//	-s string   path to the local state database
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "200ms" or
// integer nanoseconds:
//
//	{
//	  "base_url": "https://example.mockapi.io",
//	  "debounce": "300ms",
//	  "request_timeout": "5s",
//	  "delete_concurrency": 4,
//	  "state_db": "userdesk.db",
//	  "history_file": ".userdesk_history",
//	  "log_level": "debug",
//	  "otel_endpoint": "http://localhost:4318"
//	}
package config
