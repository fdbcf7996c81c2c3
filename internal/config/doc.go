// Package config loads, normalizes, and validates stillgen configuration.
//
// Precedence, lowest to highest: repository defaults, a flat TOML or JSON
// config file, STILLGEN_* environment variables, explicit CLI flags (applied
// by the command layer after Load). Unrecognized file keys are ignored rather
// than rejected. Path fields come back expanded and absolute so downstream
// code never deals with tildes or relative segments.
package config
