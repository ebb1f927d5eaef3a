// Package config loads and validates the reclaim configuration file.
//
// Configuration lives in a TOML file, by default at
// ~/.config/reclaim/config.toml, with a project-local reclaim.toml honored as
// a fallback. All path fields are tilde-expanded and normalized to absolute
// paths during Load.
package config
