// Package config loads, normalizes, and validates gleaner's TOML
// configuration. Defaults are applied before any file is read, so a
// missing config file still yields a usable Config.
package config
