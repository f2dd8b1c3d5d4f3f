// Package config loads typed configuration structs from environment
// variables, optionally bootstrapped from a .env file.
//
// Each package that needs configuration declares its own Config struct with
// `env` tags (see pkg/pg, pkg/redis, pkg/email) and calls config.Load once at
// startup. Loaded values are cached per type so repeated calls are cheap and
// consistent.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
package config
