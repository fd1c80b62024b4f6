// Package config holds all configuration for linkharvest.
//
// Configuration is assembled from CLI flags and an optional YAML file and
// passed through the application by dependency injection; nothing in this
// package is global state. The Config struct documents every knob together
// with its default. Validate reports misconfiguration via sentinel errors
// so callers can match them with errors.Is.
package config
