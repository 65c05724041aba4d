// Package config handles loading and parsing of configuration from YAML
// files and environment variables. It defines the dispatch core settings:
// admin server address, health check cadence, selection strategy, the seed
// target list and logging.
package config
