// Package config loads docregistry configuration.
//
// Values come, from lowest to highest precedence, from built-in defaults,
// an optional YAML file, AKSHARE_* environment variables and command-line
// flags. The merged result is validated before use.
//
//	AKSHARE_DOCS_DIR=./docs AKSHARE_MAX_ROWS=50 docregistry serve --mode http
//
// Nested keys use an underscore in the environment: log.level is read
// from AKSHARE_LOG_LEVEL and server.port from AKSHARE_SERVER_PORT.
package config
