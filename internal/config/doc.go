// Package config defines the format-agnostic model of an experiment
// configuration document and the Loader interface implemented by
// format-specific parsers.
package config
